package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"Grocery-Receipt-Tracker/entities"
)

// Gemini implements Scanner using the Google Gemini vision API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func receiptParsingPrompt(username string) string {
	categories := make([]string, 0, len(entities.GroceryCategories()))
	for _, c := range entities.GroceryCategories() {
		categories = append(categories, string(c))
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant that parses images of grocery receipts and extracts the information.\n")
	b.WriteString("Respond ONLY with a valid JSON object with fields: is_valid (bool), user ({username}), ")
	b.WriteString("store ({name, address, phone} or null), date_time (string or null), purchases ")
	b.WriteString("(list of {name, quantity, unit_price, unit_type, category, brand}).\n")
	b.WriteString("Format all dates as YYYY-MM-DD HH:MM:SS.\n")
	fmt.Fprintf(&b, "Populate user.username with the value '%s'.\n", username)
	fmt.Fprintf(&b, "Populate each purchase category with one of: %s.\n", strings.Join(categories, ", "))
	b.WriteString("Populate unit_type with 'lb' or 'oz' for weighed items and 'ea' for counted items.\n")
	b.WriteString("Populate brand with the brand name if visible, otherwise null.\n")
	b.WriteString("If the uploaded image is not a valid grocery receipt or cannot be parsed, ")
	b.WriteString("mark is_valid as false and return null for all other fields.")
	return b.String()
}

func (g *Gemini) ParseReceipt(ctx context.Context, imageData []byte, imageType ImageType, username string) (*ParsedReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	// genai.ImageData takes the bare format suffix, not the full MIME type.
	format := string(imageType)
	if imageType == ImageTypeJPG {
		format = "jpeg"
	}

	parts := []genai.Part{
		genai.ImageData(format, imageData),
		genai.Text(receiptParsingPrompt(username)),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	parsed, err := parseReceiptJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing receipt data: %w", err)
	}

	return parsed, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}
