package models

import "time"

// HomepageSection is a single configurable block on the homepage
type HomepageSection struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
	Visible bool   `json:"visible"`
}

// HomepageContent holds the homepage configuration for one language.
// Sections are stored as a JSON column and parsed on read.
type HomepageContent struct {
	ID           int               `json:"id"`
	Language     string            `json:"language"`
	HeroTitle    string            `json:"heroTitle"`
	HeroSubtitle string            `json:"heroSubtitle"`
	HeroCTAText  string            `json:"heroCtaText"`
	HeroCTALink  string            `json:"heroCtaLink"`
	Sections     []HomepageSection `json:"sections"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// UpsertHomepageRequest is the payload for replacing a language's homepage content
type UpsertHomepageRequest struct {
	HeroTitle    string            `json:"heroTitle"`
	HeroSubtitle string            `json:"heroSubtitle"`
	HeroCTAText  string            `json:"heroCtaText"`
	HeroCTALink  string            `json:"heroCtaLink"`
	Sections     []HomepageSection `json:"sections"`
}
