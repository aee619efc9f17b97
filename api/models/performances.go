package models

import (
	"github.com/madihg/singulars/storage"
)

type PerformanceResponse struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Status   string   `json:"status"`
	Location string   `json:"location"`
	Date     string   `json:"date"`
	Poets    []string `json:"poets"`
}

type PoemResponse struct {
	ID         string `json:"id"`
	ThemeSlug  string `json:"theme_slug"`
	AuthorType string `json:"author_type"`
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
	VoteCount  int    `json:"vote_count"`
}

type PerformanceWithPoemsResponse struct {
	PerformanceResponse
	Poems []PoemResponse `json:"poems"`
}

// PoemPairResponse backs the theme page: performance summary plus the pair.
type PoemPairResponse struct {
	Performance PerformanceResponse `json:"performance"`
	Poems       []PoemResponse      `json:"poems"`
}

type VoteCountEntry struct {
	PoemID     string `json:"poem_id"`
	AuthorType string `json:"author_type"`
	VoteCount  int    `json:"vote_count"`
}

type ThemeVoteCountsResponse struct {
	ThemeSlug string           `json:"theme_slug"`
	Counts    []VoteCountEntry `json:"counts"`
}

func TransformPerformanceFromStorage(p *storage.Performance) PerformanceResponse {
	return PerformanceResponse{
		ID:       p.ID,
		Slug:     p.Slug,
		Name:     p.Name,
		Color:    p.Color,
		Status:   p.Status,
		Location: p.Location,
		Date:     p.Date,
		Poets:    p.Poets,
	}
}

func TransformPoemFromStorage(p *storage.Poem) PoemResponse {
	return PoemResponse{
		ID:         p.ID,
		ThemeSlug:  p.ThemeSlug,
		AuthorType: p.AuthorType,
		AuthorName: p.AuthorName,
		Text:       p.Text,
		VoteCount:  p.VoteCount,
	}
}

func TransformPoemsFromStorage(poems []*storage.Poem) []PoemResponse {
	responses := make([]PoemResponse, 0, len(poems))
	for _, p := range poems {
		responses = append(responses, TransformPoemFromStorage(p))
	}
	return responses
}
