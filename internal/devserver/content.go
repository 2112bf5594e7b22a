package devserver

import (
	"fmt"
	"strings"

	"github.com/julianstephens/bliss/internal/models"
)

// TryOnMessage is returned for every try-on request
const TryOnMessage = "Try-on look applied. Natural glow with a soft rose lip."

var suggestions = map[models.TimeOfDay][]string{
	models.Morning: {"Gentle Cleanser", "Vitamin C Serum", "Moisturizer", "Sunscreen SPF 50"},
	models.Night:   {"Makeup Remover", "Cleanser", "Retinol Serum", "Night Cream", "Eye Cream"},
}

// SuggestionsFor returns the fixed product list for tod
func SuggestionsFor(tod models.TimeOfDay) []string {
	return append([]string(nil), suggestions[tod]...)
}

var conditionTips = map[string]string{
	"dry":    "Layer a hydrating serum under your moisturizer and avoid hot water when cleansing.",
	"oily":   "Use a gel moisturizer and a salicylic cleanser, and blot instead of re-powdering.",
	"acne":   "Keep actives simple, patch test new products and never skip sunscreen.",
	"normal": "A steady routine is working for you, so keep it up.",
}

var moodTips = map[string]string{
	"happy":   "Great energy! Keep your routine consistent to lock in the glow.",
	"tired":   "A cool compress and an eye cream can help puffiness after short nights.",
	"relaxed": "A calm evening is a good time for a gentle mask.",
	"sad":     "Be kind to yourself. A short, soothing routine still counts.",
	"excited": "Celebrate with a light exfoliation, but no more than twice a week.",
	"anxious": "Slow breathing while you apply products turns the routine into a pause.",
}

// TipsFor assembles tips from the fixed tables. Unknown moods and
// conditions fall back to a general line.
func TipsFor(req models.TipRequest) string {
	var lines []string
	if tip, ok := conditionTips[strings.ToLower(strings.TrimSpace(req.Condition))]; ok {
		lines = append(lines, tip)
	} else {
		lines = append(lines, "Cleanse gently and wear sunscreen every day.")
	}
	if tip, ok := moodTips[strings.ToLower(strings.TrimSpace(req.Mood))]; ok {
		lines = append(lines, tip)
	}
	if p := strings.TrimSpace(req.Products); p != "" && !strings.EqualFold(p, "no products") {
		lines = append(lines, fmt.Sprintf("After %s with %s, give your skin time before judging results.", req.Progress.Normalized(), p))
	}
	return strings.Join(lines, "\n")
}
