package models

import "time"

// Content entities serialize straight to the public API, so the json tags
// are the response contract: camelCase, matching the request payloads.

type Bank struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	LogoURL   string    `json:"logoUrl"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Card struct {
	ID        string         `json:"id"`
	BankID    string         `json:"bankId"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	ImageURL  string         `json:"imageUrl"`
	Summary   string         `json:"summary"`
	AnnualFee int64          `json:"annualFee"` // cents
	Active    bool           `json:"active"`
	Rates     []CashbackRate `json:"rates,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type CashbackRate struct {
	ID          string  `json:"id"`
	CardID      string  `json:"cardId"`
	Category    string  `json:"category"`
	RatePercent float64 `json:"ratePercent"`
	MonthlyCap  *int64  `json:"monthlyCap"` // cents, nil = uncapped
}

type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Article struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"authorId"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"coverUrl"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Page struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
