package lobby

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// row is one <tr> as seen by the tokenizer.
type row struct {
	text  strings.Builder
	cells []string
}

// ParseStatusPage extracts a LobbyStatus from the HTML of a game's status page.
// Every failure is a *gamedomain.ParseError; no partial status is returned.
func ParseStatusPage(raw string) (*gamedomain.LobbyStatus, error) {
	rows, err := collectRows(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &gamedomain.ParseError{Reason: "no table rows found"}
	}

	header := strings.TrimSpace(rows[0].text.String())
	turn, err := parseTurn(header)
	if err != nil {
		return nil, err
	}

	status := &gamedomain.LobbyStatus{
		ServerInfo: header,
		Turn:       turn,
		TimeLeft:   parseTimeLeft(header),
		Players:    make([]gamedomain.PlayerStatus, 0, len(rows)-1),
	}

	for i, r := range rows[1:] {
		if len(r.cells) < 2 {
			return nil, &gamedomain.ParseError{
				Reason: fmt.Sprintf("expected at least 2 cells, found %d", len(r.cells)),
				Row:    i + 1,
			}
		}
		statusText := strings.TrimSpace(r.cells[1])
		status.Players = append(status.Players, gamedomain.PlayerStatus{
			DisplayName: strings.TrimSpace(r.cells[0]),
			TurnState:   gamedomain.ParseTurnState(statusText),
			StatusText:  statusText,
		})
	}

	return status, nil
}

// parseTurn finds the first "turn" token followed by a non-negative integer.
func parseTurn(header string) (int, error) {
	rest := strings.ToLower(header)
	found := false
	for {
		idx := strings.Index(rest, "turn")
		if idx < 0 {
			break
		}
		found = true
		rest = rest[idx+len("turn"):]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			break
		}
		if n, err := strconv.Atoi(strings.TrimRight(fields[0], ",.:;")); err == nil && n >= 0 {
			return n, nil
		}
	}
	if !found {
		return 0, &gamedomain.ParseError{Reason: "header has no turn token"}
	}
	return 0, &gamedomain.ParseError{Reason: fmt.Sprintf("header %q has no turn number", header)}
}

// parseTimeLeft returns the contents of the first parenthesised group, or nil.
func parseTimeLeft(header string) *string {
	open := strings.Index(header, "(")
	if open < 0 {
		return nil
	}
	closing := strings.Index(header[open+1:], ")")
	var text string
	if closing < 0 {
		text = header[open+1:]
	} else {
		text = header[open+1 : open+1+closing]
	}
	text = strings.TrimSpace(text)
	return &text
}

// collectRows tokenizes the page rather than building a DOM, so rows outside
// a <table> element are kept.
func collectRows(raw string) ([]*row, error) {
	var (
		rows      []*row
		cur       *row
		cell      *strings.Builder
		z         = html.NewTokenizer(strings.NewReader(raw))
		closeCell = func() {
			if cur != nil && cell != nil {
				cur.cells = append(cur.cells, cell.String())
			}
			cell = nil
		}
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				closeCell()
				return rows, nil
			}
			return nil, &gamedomain.ParseError{Reason: fmt.Sprintf("invalid html: %v", z.Err())}

		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Tr:
				closeCell()
				cur = &row{}
				rows = append(rows, cur)
			case atom.Td, atom.Th:
				closeCell()
				if cur != nil {
					cell = &strings.Builder{}
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Tr:
				closeCell()
				cur = nil
			case atom.Td, atom.Th:
				closeCell()
			case atom.Table:
				closeCell()
				cur = nil
			}

		case html.TextToken:
			if cur == nil {
				continue
			}
			text := string(z.Text())
			cur.text.WriteString(text)
			if cell != nil {
				cell.WriteString(text)
			}
		}
	}
}
