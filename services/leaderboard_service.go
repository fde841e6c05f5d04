package services

import (
	"log"

	"github.com/Dxrie/skictf/database"
)

// InvalidateLeaderboardCache 清空排行榜相关的 Redis 缓存。
// 队伍分数只会通过提交核心变化，所以在每次新记分之后调用一次即可，
// 下次查询会重新落库并回填缓存。
func InvalidateLeaderboardCache() {
	keys, err := database.RDB.Keys(database.Ctx, "leaderboard:*").Result()
	if err == nil && len(keys) > 0 {
		database.RDB.Del(database.Ctx, keys...)
		log.Printf("Cleared %d leaderboard cache keys from Redis.", len(keys))
	}
}
