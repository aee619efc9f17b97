package models

import "github.com/madihg/singulars/storage"

// SeedRequest is the bulk-load payload. Seeding is an idempotent upsert keyed
// on natural keys: performance slug, and (performance, theme, author type) for
// poems, so re-running a seed never duplicates rows or resets counters.
type SeedRequest struct {
	Performances []SeedPerformance `json:"performances"`
}

type SeedPerformance struct {
	Slug     string      `json:"slug"`
	Name     string      `json:"name"`
	Color    string      `json:"color"`
	Status   string      `json:"status"`
	Location string      `json:"location"`
	Date     string      `json:"date"`
	Poets    []string    `json:"poets"`
	Themes   []SeedTheme `json:"themes"`
}

type SeedTheme struct {
	Slug  string     `json:"slug"`
	Poems []SeedPoem `json:"poems"`
}

type SeedPoem struct {
	AuthorType string `json:"author_type"`
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
}

type SeedResponse struct {
	PerformancesUpserted int `json:"performances_upserted"`
	PoemsUpserted        int `json:"poems_upserted"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

var ValidStatuses = map[string]bool{
	storage.StatusUpcoming: true,
	storage.StatusTraining: true,
	storage.StatusTrained:  true,
}

var ValidAuthorTypes = map[string]bool{
	storage.AuthorHuman:   true,
	storage.AuthorMachine: true,
}

// statusOrder encodes the manual lifecycle: upcoming -> training -> trained.
var statusOrder = map[string]int{
	storage.StatusUpcoming: 0,
	storage.StatusTraining: 1,
	storage.StatusTrained:  2,
}

// IsForwardTransition reports whether moving from one status to the next
// follows the lifecycle. Transitions never go backwards.
func IsForwardTransition(from, to string) bool {
	fromOrder, okFrom := statusOrder[from]
	toOrder, okTo := statusOrder[to]
	return okFrom && okTo && toOrder > fromOrder
}
