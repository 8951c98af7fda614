package compose

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"lexibot/provider"
)

// descriptionLimit keeps inline article descriptions to a readable preview.
const descriptionLimit = 120

// InlineComposer renders results into inline-query article results. Each
// visited entity becomes one article whose message content is sent when the
// user picks it.
type InlineComposer struct {
	results []interface{}
	section string
}

// NewInlineComposer creates a composer for the inline-query surface.
func NewInlineComposer() *InlineComposer {
	return &InlineComposer{}
}

// Title marks the section subsequent entities belong to. The article list
// has no headings, so the section shows up in each article's description.
func (c *InlineComposer) Title(text string) {
	c.section = text
}

func (c *InlineComposer) Link(label, url string) {
	article := tgbotapi.NewInlineQueryResultArticleHTML(
		uuid.NewString(),
		label,
		fmt.Sprintf("<a href=\"%s\">%s</a>", url, html.EscapeString(label)),
	)
	article.URL = url
	c.results = append(c.results, article)
}

func (c *InlineComposer) Word(index int, def provider.Definition) {
	c.definition(def)
}

func (c *InlineComposer) Phrase(index int, def provider.Definition) {
	c.definition(def)
}

func (c *InlineComposer) definition(def provider.Definition) {
	title := def.Headword
	if def.PartOfSpeech != "" {
		title = fmt.Sprintf("%s (%s)", def.Headword, def.PartOfSpeech)
	}
	content := fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(def.Headword), html.EscapeString(def.Text))
	if def.Example != "" {
		content += fmt.Sprintf("\n<i>%s</i>", html.EscapeString(def.Example))
	}
	c.add(title, def.Text, content)
}

func (c *InlineComposer) Abbreviation(index int, category, expansion string) {
	title := expansion
	if category != "" {
		title = fmt.Sprintf("%s — %s", expansion, category)
	}
	c.add(title, category, html.EscapeString(expansion))
}

func (c *InlineComposer) Slang(index int, entry provider.SlangEntry) {
	content := html.EscapeString(entry.Definition)
	if entry.Example != "" {
		content += fmt.Sprintf("\n<i>%s</i>", html.EscapeString(entry.Example))
	}
	c.add(entry.Definition, fmt.Sprintf("👍 %d", entry.ThumbsUp), content)
}

func (c *InlineComposer) Thesaurus(index int, entry provider.ThesaurusEntry) {
	var parts []string
	if len(entry.Synonyms) > 0 {
		parts = append(parts, "Synonyms: "+strings.Join(entry.Synonyms, ", "))
	}
	if len(entry.Antonyms) > 0 {
		parts = append(parts, "Antonyms: "+strings.Join(entry.Antonyms, ", "))
	}
	body := strings.Join(parts, "\n")
	c.add(entry.Headword, body, fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(entry.Headword), html.EscapeString(body)))
}

func (c *InlineComposer) Candidate(index int, word string) {
	c.add(word, c.section, html.EscapeString(word))
}

func (c *InlineComposer) NothingFound() {
	c.add("Nothing found", "", html.EscapeString(NothingFoundText))
}

// Build finalizes the article list.
func (c *InlineComposer) Build() error {
	if len(c.results) == 0 {
		return ErrEmptyBuild
	}
	return nil
}

// Results returns the finalized inline results. Valid only after Build.
func (c *InlineComposer) Results() []interface{} {
	return c.results
}

func (c *InlineComposer) add(title, description, content string) {
	article := tgbotapi.NewInlineQueryResultArticleHTML(uuid.NewString(), clip(title, descriptionLimit), content)
	article.Description = clip(description, descriptionLimit)
	c.results = append(c.results, article)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - len("…")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimRight(s[:cut], " ") + "…"
}
