package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/clients/sendgrid"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
	"github.com/aurelle/marketing-backend/internal/types"
)

// emailProduct is a rendered line item inside a marketing email.
type emailProduct struct {
	Name     string
	Category string
	Price    float64
	Reason   string
}

type emailData struct {
	Name      string
	Email     string
	Interests []string
	Products  []emailProduct
}

type MarketingService interface {
	Templates() []types.EmailTemplate
	GenerateEmail(ctx context.Context, userID uuid.UUID, templateType types.EmailTemplateType) (*types.GeneratedEmail, error)
	SendEmail(ctx context.Context, userID uuid.UUID, templateType types.EmailTemplateType) (*types.GeneratedEmail, bool, error)
}

type marketingService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	productRepo     repos.ProductRepo
	interestRepo    repos.UserInterestRepo
	recommendations RecommendationService
	mailer          sendgrid.Client
	fromEmail       string
	fromName        string
}

func NewMarketingService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, productRepo repos.ProductRepo, interestRepo repos.UserInterestRepo, recommendations RecommendationService, mailer sendgrid.Client, fromEmail, fromName string) MarketingService {
	return &marketingService{
		db:              db,
		log:             log.With("service", "MarketingService"),
		userRepo:        userRepo,
		productRepo:     productRepo,
		interestRepo:    interestRepo,
		recommendations: recommendations,
		mailer:          mailer,
		fromEmail:       fromEmail,
		fromName:        fromName,
	}
}

var emailTemplates = map[types.EmailTemplateType]types.EmailTemplate{
	types.EmailWelcome: {
		ID:              "welcome-v1",
		Name:            "Welcome",
		TemplateType:    types.EmailWelcome,
		SubjectTemplate: "Welcome aboard, {{.Name}}!",
		Variables:       []string{"Name", "Email"},
		TextTemplate: `Hi {{.Name}},

Welcome! Your account {{.Email}} is ready. Browse the catalog and tell us
what you love so we can tailor picks just for you.

The Team`,
		HTMLTemplate: `<html><body>
<h1>Welcome, {{.Name}}!</h1>
<p>Your account <strong>{{.Email}}</strong> is ready.</p>
<p>Browse the catalog and tell us what you love so we can tailor picks just for you.</p>
</body></html>`,
	},
	types.EmailPersonalizedRecommendations: {
		ID:              "personalized-recs-v1",
		Name:            "Personalized recommendations",
		TemplateType:    types.EmailPersonalizedRecommendations,
		SubjectTemplate: "{{.Name}}, we picked these just for you",
		Variables:       []string{"Name", "Products"},
		TextTemplate: `Hi {{.Name}},

Based on your activity, we think you'll like:
{{range .Products}}
- {{.Name}} ({{.Category}}) ${{printf "%.2f" .Price}} - {{.Reason}}
{{end}}
Happy shopping!`,
		HTMLTemplate: `<html><body>
<h1>Picked for you, {{.Name}}</h1>
<ul>
{{range .Products}}<li><strong>{{.Name}}</strong> ({{.Category}}) &mdash; ${{printf "%.2f" .Price}}<br/><em>{{.Reason}}</em></li>
{{end}}</ul>
</body></html>`,
	},
	types.EmailInterestBased: {
		ID:              "interest-based-v1",
		Name:            "Interest based",
		TemplateType:    types.EmailInterestBased,
		SubjectTemplate: "New arrivals for your interests, {{.Name}}",
		Variables:       []string{"Name", "Interests", "Products"},
		TextTemplate: `Hi {{.Name}},

You told us you're into {{join .Interests ", "}}. Fresh picks:
{{range .Products}}
- {{.Name}} ({{.Category}}) ${{printf "%.2f" .Price}}
{{end}}
See you soon!`,
		HTMLTemplate: `<html><body>
<h1>For your interests, {{.Name}}</h1>
<p>You told us you're into {{join .Interests ", "}}.</p>
<ul>
{{range .Products}}<li><strong>{{.Name}}</strong> ({{.Category}}) &mdash; ${{printf "%.2f" .Price}}</li>
{{end}}</ul>
</body></html>`,
	},
}

var emailFuncs = map[string]any{
	"join": strings.Join,
}

func (ms *marketingService) Templates() []types.EmailTemplate {
	out := make([]types.EmailTemplate, 0, len(emailTemplates))
	for _, t := range []types.EmailTemplateType{types.EmailWelcome, types.EmailPersonalizedRecommendations, types.EmailInterestBased} {
		out = append(out, emailTemplates[t])
	}
	return out
}

func (ms *marketingService) GenerateEmail(ctx context.Context, userID uuid.UUID, templateType types.EmailTemplateType) (*types.GeneratedEmail, error) {
	tmpl, ok := emailTemplates[templateType]
	if !ok {
		return nil, apierr.Validation(fmt.Errorf("unknown template type %q", templateType))
	}

	user, err := ms.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %s not found", userID))
	}

	data := emailData{
		Name:  displayName(user),
		Email: user.Email,
	}

	var recs []types.Recommendation
	if templateType != types.EmailWelcome {
		interests, err := ms.interestRepo.GetByUserID(ctx, nil, userID, 5)
		if err != nil {
			return nil, fmt.Errorf("fetch interests: %w", err)
		}
		for _, interest := range interests {
			data.Interests = append(data.Interests, string(interest.Category))
		}
		if len(data.Interests) == 0 {
			data.Interests = []string{"new arrivals"}
		}

		recs, err = ms.recommendations.GetPersonalized(ctx, userID, 5)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			product, err := ms.productRepo.GetByID(ctx, nil, rec.ProductID)
			if err != nil {
				return nil, fmt.Errorf("fetch product: %w", err)
			}
			if product == nil {
				continue
			}
			data.Products = append(data.Products, emailProduct{
				Name:     product.Name,
				Category: string(product.Category),
				Price:    product.Price,
				Reason:   rec.Reason,
			})
		}
	}

	subject, err := renderText(tmpl.ID+":subject", tmpl.SubjectTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	text, err := renderText(tmpl.ID+":text", tmpl.TextTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	html, err := renderHTML(tmpl.ID+":html", tmpl.HTMLTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	return &types.GeneratedEmail{
		UserID:          userID,
		TemplateType:    templateType,
		Subject:         strings.TrimSpace(subject),
		HTMLContent:     html,
		TextContent:     text,
		Recommendations: recs,
		GeneratedAt:     time.Now(),
	}, nil
}

// SendEmail generates the email and, when a mail client is configured,
// delivers it. The second return reports whether delivery was attempted.
func (ms *marketingService) SendEmail(ctx context.Context, userID uuid.UUID, templateType types.EmailTemplateType) (*types.GeneratedEmail, bool, error) {
	email, err := ms.GenerateEmail(ctx, userID, templateType)
	if err != nil {
		return nil, false, err
	}
	if ms.mailer == nil {
		ms.log.Debug("mail delivery skipped, no client configured", "user_id", userID.String())
		return email, false, nil
	}

	user, err := ms.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch user: %w", err)
	}
	result, err := ms.mailer.Send(ctx, sendgrid.SendEmailRequest{
		From:       sendgrid.EmailAddress{Email: ms.fromEmail, Name: ms.fromName},
		To:         []sendgrid.EmailAddress{{Email: user.Email}},
		Subject:    email.Subject,
		Text:       email.TextContent,
		HTML:       email.HTMLContent,
		Categories: []string{string(templateType)},
	})
	if err != nil {
		return nil, false, fmt.Errorf("deliver email: %w", err)
	}

	ms.log.Info("Sent marketing email", "user_id", userID.String(),
		"template", string(templateType), "status", result.StatusCode)
	return email, true, nil
}

func renderText(name, body string, data emailData) (string, error) {
	t, err := texttemplate.New(name).Funcs(emailFuncs).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(name, body string, data emailData) (string, error) {
	t, err := htmltemplate.New(name).Funcs(emailFuncs).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// displayName prefers the profile's name field and falls back to the local
// part of the email address.
func displayName(user *types.User) string {
	if len(user.ProfileData) > 0 {
		var profile map[string]any
		if err := json.Unmarshal(user.ProfileData, &profile); err == nil {
			if name, ok := profile["name"].(string); ok && strings.TrimSpace(name) != "" {
				return strings.TrimSpace(name)
			}
		}
	}
	if at := strings.Index(user.Email, "@"); at > 0 {
		return user.Email[:at]
	}
	return "there"
}
