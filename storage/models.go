package storage

import (
	"fmt"
	"time"
)

// Performance statuses. Voting is only open while a performance is training.
const (
	StatusUpcoming = "upcoming"
	StatusTraining = "training"
	StatusTrained  = "trained"
)

// Poem author types. Every theme pair holds one poem of each.
const (
	AuthorHuman   = "human"
	AuthorMachine = "machine"
)

type Performance struct {
	ID        string    `dynamodbav:"PK" json:"id"`
	Slug      string    `dynamodbav:"Slug" json:"slug"`
	Name      string    `dynamodbav:"Name" json:"name"`
	Color     string    `dynamodbav:"Color" json:"color"`
	Status    string    `dynamodbav:"Status" json:"status"`
	Location  string    `dynamodbav:"Location" json:"location"`
	Date      string    `dynamodbav:"Date" json:"date"`
	Poets     []string  `dynamodbav:"Poets" json:"poets"`
	CreatedAt time.Time `dynamodbav:"CreatedAt" json:"created_at"`
}

type Poem struct {
	ID            string `dynamodbav:"PK" json:"id"`
	PerformanceID string `dynamodbav:"PerformanceID" json:"performance_id"`
	ThemeSlug     string `dynamodbav:"ThemeSlug" json:"theme_slug"`
	AuthorType    string `dynamodbav:"AuthorType" json:"author_type"`
	AuthorName    string `dynamodbav:"AuthorName" json:"author_name"`
	Text          string `dynamodbav:"PoemText" json:"text"`
	VoteCount     int    `dynamodbav:"VoteCount" json:"vote_count"`
}

type Vote struct {
	Fingerprint   string    `dynamodbav:"PK" json:"fingerprint"`
	PairKey       string    `dynamodbav:"SK" json:"-"` // Unique composite of performance/theme
	PoemID        string    `dynamodbav:"PoemID" json:"poem_id"`
	PerformanceID string    `dynamodbav:"PerformanceID" json:"performance_id"`
	ThemeSlug     string    `dynamodbav:"ThemeSlug" json:"theme_slug"`
	CreatedAt     time.Time `dynamodbav:"CreatedAt" json:"created_at"`
}

// PairKey identifies the poem pair a vote belongs to. It doubles as the vote
// sort key, so the Votes table itself enforces one vote per fingerprint per pair.
func PairKey(performanceID, themeSlug string) string {
	return fmt.Sprintf("perf#%s#theme#%s", performanceID, themeSlug)
}
