package mail

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// buildMessage renders msg as a gomail message. Thread continuation uses
// In-Reply-To/References so non-Gmail clients group the reply too.
func buildMessage(fromAddr, fromName string, msg Outgoing) *gomail.Message {
	m := gomail.NewMessage()
	if fromName != "" {
		m.SetAddressHeader("From", fromAddr, fromName)
	} else {
		m.SetHeader("From", fromAddr)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", newMessageID(fromAddr))
	if strings.HasPrefix(msg.ThreadID, "<") {
		m.SetHeader("In-Reply-To", msg.ThreadID)
		m.SetHeader("References", msg.ThreadID)
	}
	m.SetBody("text/html", msg.HTML)
	m.AddAlternative("text/plain", htmlToText(msg.HTML))
	return m
}

func renderMIME(m *gomail.Message) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render mime: %w", err)
	}
	return buf.Bytes(), nil
}

func newMessageID(fromAddr string) string {
	domain := "localhost"
	if at := strings.LastIndex(fromAddr, "@"); at >= 0 && at < len(fromAddr)-1 {
		domain = fromAddr[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	blankPattern = regexp.MustCompile(`\n{3,}`)
	brPattern    = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>|</tr>`)
)

func htmlToText(html string) string {
	text := brPattern.ReplaceAllString(html, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'").Replace(text)
	return strings.TrimSpace(blankPattern.ReplaceAllString(text, "\n\n"))
}
