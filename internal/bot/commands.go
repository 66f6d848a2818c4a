package bot

import "strings"

// Command describes a chat command for the HELP reply and the HTTP catalogue.
type Command struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Usage       string   `json:"usage"`
	Description string   `json:"description"`
}

// Commands returns every chat command in display order.
func Commands() []Command {
	return []Command{
		{
			Name:        "SET",
			Usage:       "SET HW=50000 DW=30000",
			Description: "ตั้งเป้ายอดขายรายแผนก (หรือ SET HW 50000)",
		},
		{
			Name:        "TARGETS",
			Aliases:     []string{"เป้า"},
			Usage:       "TARGETS",
			Description: "ดูเป้ายอดขายที่ตั้งไว้",
		},
		{
			Name:        "HELP",
			Aliases:     []string{"ช่วยเหลือ"},
			Usage:       "HELP",
			Description: "แสดงคำสั่งทั้งหมด",
		},
	}
}

// lookupCommand resolves the first word of a message to a command name.
func lookupCommand(word string) (string, bool) {
	for _, c := range Commands() {
		if strings.EqualFold(word, c.Name) {
			return c.Name, true
		}
		for _, a := range c.Aliases {
			if strings.EqualFold(word, a) {
				return c.Name, true
			}
		}
	}
	return "", false
}

func helpText(intro string) string {
	var b strings.Builder
	b.WriteString(intro)
	for _, c := range Commands() {
		b.WriteString("\n• ")
		b.WriteString(c.Usage)
		b.WriteString("\n  ")
		b.WriteString(c.Description)
	}
	return b.String()
}
