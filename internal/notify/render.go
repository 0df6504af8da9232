package notify

import (
	"fmt"
	"strings"

	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/domain"
)

// RenderDigest builds one combined message covering every transition
// relevant to a single recipient, so simultaneous changes never flood a
// user with separate sends.
func RenderDigest(cat catalog.Catalog, transitions []domain.Transition) string {
	var b strings.Builder
	b.WriteString("🍵 *Matcha Stock Update*\n")

	for _, t := range transitions {
		b.WriteString("\n")
		b.WriteString(renderTransition(cat, t))
	}

	return b.String()
}

func renderTransition(cat catalog.Catalog, t domain.Transition) string {
	name := t.VariantID
	url := ""
	if v, ok := cat.Get(t.VariantID); ok {
		name = v.DisplayName()
		url = v.URL
	}

	var b strings.Builder
	if t.BackInStock() {
		b.WriteString(fmt.Sprintf("*%s*\nStatus: 🟢 In Stock\n", name))
	} else {
		b.WriteString(fmt.Sprintf("*%s*\nStatus: 🔴 Out of Stock\n", name))
	}
	if url != "" {
		b.WriteString(fmt.Sprintf("Check it out: %s\n", url))
	}
	return b.String()
}

const maintenanceNotice = "🔧 *Monitor Paused*\n\n" +
	"The stock monitor is going offline for maintenance.\n" +
	"You won't receive notifications during this time.\n\n" +
	"It will resume automatically when maintenance is complete."

const resumeNotice = "✅ *Monitor Resumed*\n\n" +
	"The stock monitor is back online and watching your products.\n\n" +
	"You'll receive notifications for stock changes as usual."
