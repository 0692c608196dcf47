package catalog

import (
	"fmt"
	"strings"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	NoBranchesText = "No branches loaded."
	NoServicesText = "No services loaded."
	emptyField     = "-"
)

// FormatBranches renders public branches as Markdown for the system prompt.
func FormatBranches(branches []models.Branch) string {
	if len(branches) == 0 {
		return NoBranchesText
	}

	lines := []string{
		"## Available branches",
		"",
		"Use this information to answer questions about locations, addresses and opening hours. Include the map link when you mention a branch.",
		"",
	}
	for i, b := range branches {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			name = "Unnamed"
		}
		address := strings.TrimSpace(b.Address)
		if address == "" {
			address = "No address"
		}
		lines = append(lines,
			fmt.Sprintf("### Branch %d: %s", i+1, name),
			fmt.Sprintf("- **Address:** %s", address),
		)
		if link := strings.TrimSpace(b.MapLink); link != "" {
			lines = append(lines, fmt.Sprintf("- **Location (map):** %s", link))
		}
		lines = append(lines, "- **Hours:**")
		for day, hours := range b.Hours {
			if hours != "" {
				lines = append(lines, fmt.Sprintf("  - %s: %s", models.WeekdayNames[day], hours))
			}
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FormatProducts renders the publicly visible services (type 1) and packages (type 2).
func FormatProducts(products []models.Product) string {
	if len(products) == 0 {
		return NoServicesText
	}

	var services, packages []models.Product
	for _, p := range products {
		if !p.VisiblePublic {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(p.Type)) {
		case "servicio":
			services = append(services, p)
		case "paquete":
			packages = append(packages, p)
		}
	}

	lines := []string{
		"## Services and products",
		"",
		"Use the exact names from this list for the `service` parameter. There are two kinds:",
		"- **Type 1 services:** the customer chooses how many hours. When they pick one, ask: \"How many hours would you like?\"",
		"- **Type 2 services:** fixed duration. Do not ask for the number of hours.",
		"",
		"## Services type 1",
		"",
	}
	if len(services) == 0 {
		lines = append(lines, "(No type 1 services loaded.)", "")
	}
	for _, p := range services {
		lines = append(lines, "### "+orDash(p.Name))
		if price := formatPrice(p.UnitPrice); price != emptyField {
			lines = append(lines, fmt.Sprintf("- **Price:** %s per %s", price, unitOf(p)))
		} else {
			lines = append(lines, "- **Price:** -")
		}
		lines = append(lines,
			"- **Description:** "+CleanDescription(p.Description),
			"- **Type:** 1",
			"",
		)
	}

	lines = append(lines, "## Services type 2", "")
	if len(packages) == 0 {
		lines = append(lines, "(No type 2 services loaded.)", "")
	}
	for _, p := range packages {
		lines = append(lines,
			"### "+orDash(p.Name),
			"- **Duration:** "+formatDuration(p.Quantity, p.Unit),
			"- **Price:** "+formatPrice(p.Total),
			"- **Description:** "+CleanDescription(p.Description),
			"- **Type:** 2",
			"",
		)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// CleanDescription strips HTML and collapses whitespace. Empty input becomes "-".
func CleanDescription(desc string) string {
	if strings.TrimSpace(desc) == "" {
		return emptyField
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return strings.Join(strings.Fields(desc), " ")
	}

	var parts []string
	collectText(doc.Find("body"), &parts)
	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if text == "" {
		return emptyField
	}
	return text
}

// collectText appends every text node under s in document order.
func collectText(s *goquery.Selection, out *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			*out = append(*out, c.Text())
			return
		}
		collectText(c, out)
	})
}

func formatPrice(a models.Amount) string {
	if a.Value == nil {
		return emptyField
	}
	return fmt.Sprintf("S/. %.2f", *a.Value)
}

func formatDuration(quantity models.Amount, unit string) string {
	n := 0
	if quantity.Value != nil {
		n = int(*quantity.Value)
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "hora"
	}
	if n == 1 {
		return "1 " + u
	}
	switch u {
	case "hora":
		return fmt.Sprintf("%d horas", n)
	case "día":
		return fmt.Sprintf("%d días", n)
	}
	if strings.HasSuffix(u, "s") {
		return fmt.Sprintf("%d %s", n, u)
	}
	return fmt.Sprintf("%d %ss", n, u)
}

func unitOf(p models.Product) string {
	u := strings.ToLower(strings.TrimSpace(p.Unit))
	if u == "" {
		return "hora"
	}
	return u
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return emptyField
	}
	return s
}
