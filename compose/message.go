package compose

import (
	"fmt"
	"html"
	"strings"

	"lexibot/provider"
)

// maxMessageLen is Telegram's hard limit on message text.
const maxMessageLen = 4096

// MessageComposer renders results into one HTML-formatted chat message.
type MessageComposer struct {
	b     strings.Builder
	built string
	done  bool
}

// NewMessageComposer creates a composer for the chat-message surface.
func NewMessageComposer() *MessageComposer {
	return &MessageComposer{}
}

func (m *MessageComposer) Title(text string) {
	if m.b.Len() > 0 {
		m.b.WriteString("\n")
	}
	fmt.Fprintf(&m.b, "<b>%s</b>\n\n", html.EscapeString(text))
}

func (m *MessageComposer) Link(label, url string) {
	fmt.Fprintf(&m.b, "<a href=\"%s\">%s</a>\n", url, html.EscapeString(label))
}

func (m *MessageComposer) Word(index int, def provider.Definition) {
	m.definition(index, def)
}

func (m *MessageComposer) Phrase(index int, def provider.Definition) {
	m.definition(index, def)
}

func (m *MessageComposer) definition(index int, def provider.Definition) {
	fmt.Fprintf(&m.b, "%d. <b>%s</b>", index+1, html.EscapeString(def.Headword))
	if def.PartOfSpeech != "" {
		fmt.Fprintf(&m.b, " <i>%s</i>", html.EscapeString(def.PartOfSpeech))
	}
	fmt.Fprintf(&m.b, "\n%s\n", html.EscapeString(def.Text))
	if def.Example != "" {
		fmt.Fprintf(&m.b, "<i>%s</i>\n", html.EscapeString(def.Example))
	}
	m.b.WriteString("\n")
}

func (m *MessageComposer) Abbreviation(index int, category, expansion string) {
	fmt.Fprintf(&m.b, "%d. %s", index+1, html.EscapeString(expansion))
	if category != "" {
		fmt.Fprintf(&m.b, " <i>(%s)</i>", html.EscapeString(category))
	}
	m.b.WriteString("\n")
}

func (m *MessageComposer) Slang(index int, entry provider.SlangEntry) {
	fmt.Fprintf(&m.b, "%d. %s\n", index+1, html.EscapeString(entry.Definition))
	if entry.Example != "" {
		fmt.Fprintf(&m.b, "<i>%s</i>\n", html.EscapeString(entry.Example))
	}
	fmt.Fprintf(&m.b, "👍 %d\n\n", entry.ThumbsUp)
}

func (m *MessageComposer) Thesaurus(index int, entry provider.ThesaurusEntry) {
	fmt.Fprintf(&m.b, "%d. <b>%s</b>\n", index+1, html.EscapeString(entry.Headword))
	if len(entry.Synonyms) > 0 {
		fmt.Fprintf(&m.b, "Synonyms: %s\n", html.EscapeString(strings.Join(entry.Synonyms, ", ")))
	}
	if len(entry.Antonyms) > 0 {
		fmt.Fprintf(&m.b, "Antonyms: %s\n", html.EscapeString(strings.Join(entry.Antonyms, ", ")))
	}
	m.b.WriteString("\n")
}

func (m *MessageComposer) Candidate(index int, word string) {
	fmt.Fprintf(&m.b, "%d. %s\n", index+1, html.EscapeString(word))
}

func (m *MessageComposer) NothingFound() {
	m.b.WriteString(NothingFoundText)
}

// Build finalizes the message, truncating at Telegram's length limit on a
// line boundary.
func (m *MessageComposer) Build() error {
	text := strings.TrimRight(m.b.String(), "\n")
	if text == "" {
		return ErrEmptyBuild
	}
	if len(text) > maxMessageLen {
		cut := strings.LastIndexByte(text[:maxMessageLen], '\n')
		if cut <= 0 {
			cut = maxMessageLen
		}
		text = text[:cut]
	}
	m.built = text
	m.done = true
	return nil
}

// Text returns the finalized message. Valid only after a successful Build.
func (m *MessageComposer) Text() string {
	return m.built
}
