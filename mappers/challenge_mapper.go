package mappers

import (
	"github.com/Dxrie/skictf/dto"
	"github.com/Dxrie/skictf/models"
)

func MapCreateReqToModel(req dto.CreateChallengeReq, authorID uint32) models.Challenge {
	files := make([]models.ChallengeFile, 0, len(req.FileURLs))
	for _, url := range req.FileURLs {
		files = append(files, models.ChallengeFile{FileURL: url})
	}
	return models.Challenge{
		Title:       req.Title,
		AuthorID:    authorID,
		Description: req.Description,
		Points:      req.Points,
		Category:    req.Category,
		Flag:        req.Flag,
		Published:   req.Published,
		Files:       files,
	}
}

func MapModelToItemResp(ch models.Challenge, solved bool) dto.ChallengeItemResp {
	return dto.ChallengeItemResp{
		ID:         ch.ID,
		Title:      ch.Title,
		Category:   ch.Category,
		Points:     ch.Points,
		SolveCount: ch.SolveCount,
		IsSolved:   solved,
	}
}

func MapModelToDetailResp(ch models.Challenge, solved bool) dto.ChallengeDetailResp {
	urls := make([]string, 0, len(ch.Files))
	for _, f := range ch.Files {
		urls = append(urls, f.FileURL)
	}
	return dto.ChallengeDetailResp{
		ID:          ch.ID,
		Title:       ch.Title,
		Author:      ch.Author.Username,
		Description: ch.Description,
		Category:    ch.Category,
		Points:      ch.Points,
		SolveCount:  ch.SolveCount,
		IsSolved:    solved,
		FileURLs:    urls,
	}
}
