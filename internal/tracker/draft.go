package tracker

import (
	"strings"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/palette"
)

// Draft is the tracker form
type Draft struct {
	Mood          string
	Condition     string
	Product       string
	CustomProduct string
	Progress      models.Progress
}

// NewDraft returns the form defaults
func NewDraft() Draft {
	return Draft{Progress: models.DefaultProgress()}
}

// DraftFromEntry seeds a form from a saved entry. Products that are not a
// known option select Other and carry the saved text as the custom product.
func DraftFromEntry(e models.TrackerEntry) Draft {
	d := Draft{
		Mood:      e.Mood,
		Condition: e.Condition,
		Product:   e.Products,
		Progress:  e.Progress.Normalized(),
	}
	if e.Products != "" && !palette.Default().Has(palette.Products, e.Products) {
		d.Product = constants.OtherProduct
		d.CustomProduct = e.Products
	}
	return d
}

// SelectedProduct is the product sent to the backend: the trimmed custom text
// when Other is chosen and the text is not blank, otherwise the product.
func (d Draft) SelectedProduct() string {
	if d.Product == constants.OtherProduct {
		if custom := strings.TrimSpace(d.CustomProduct); custom != "" {
			return custom
		}
	}
	return d.Product
}

// Ready reports whether the submit control should be enabled
func (d Draft) Ready() bool {
	return d.Mood != "" && d.Condition != "" && d.Product != ""
}

// TipRequest builds the tip generator input
func (d Draft) TipRequest() models.TipRequest {
	return models.TipRequest{
		Mood:      d.Mood,
		Condition: d.Condition,
		Products:  d.SelectedProduct(),
		Progress:  d.Progress.Normalized(),
	}
}
