package types

import (
	"time"

	"github.com/google/uuid"
)

type EmailTemplateType string

const (
	EmailPersonalizedRecommendations EmailTemplateType = "personalized_recommendations"
	EmailWelcome                     EmailTemplateType = "welcome"
	EmailInterestBased               EmailTemplateType = "interest_based"
)

type EmailTemplate struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	TemplateType    EmailTemplateType `json:"template_type"`
	SubjectTemplate string            `json:"subject_template"`
	HTMLTemplate    string            `json:"html_template"`
	TextTemplate    string            `json:"text_template"`
	Variables       []string          `json:"variables"`
}

type GeneratedEmail struct {
	UserID          uuid.UUID         `json:"user_id"`
	TemplateType    EmailTemplateType `json:"template_type"`
	Subject         string            `json:"subject"`
	HTMLContent     string            `json:"html_content"`
	TextContent     string            `json:"text_content"`
	Recommendations []Recommendation  `json:"recommendations"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

type VisionBoard struct {
	UserID      uuid.UUID      `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Theme       string         `json:"theme"`
	Products    []Product      `json:"products"`
	Layout      []BoardCell    `json:"layout"`
	Style       BoardStyle     `json:"style"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type BoardCell struct {
	ProductID uuid.UUID `json:"product_id"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
}

type BoardStyle struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
	FontColor  string `json:"font_color"`
}
