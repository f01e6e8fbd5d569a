package gamedomain

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
)

func TestParseTurnState(t *testing.T) {
	tests := []struct {
		name string
		text string
		want TurnState
	}{
		{name: "played", text: "Turn played", want: TurnPlayed},
		{name: "unfinished", text: "Turn unfinished", want: TurnUnfinished},
		{name: "not submitted", text: "-", want: TurnNotSubmitted},
		{name: "surrounding whitespace", text: "  Turn played\n", want: TurnPlayed},
		{name: "eliminated", text: "Eliminated", want: TurnUnknown},
		{name: "ai", text: "AI", want: TurnUnknown},
		{name: "case differs", text: "turn played", want: TurnUnknown},
		{name: "empty", text: "", want: TurnUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTurnState(tt.text))
		})
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		want        string
	}{
		{name: "bare nation", displayName: "Arcosophale", want: "arcosophale"},
		{name: "with epithet", displayName: "Arcosophale, The Golden Era", want: "arcosophale"},
		{name: "padded", displayName: "  Arcosophale ,Golden", want: "arcosophale"},
		{name: "upper case", displayName: "ARCOSOPHALE", want: "arcosophale"},
		{name: "multi word", displayName: "T'ien Ch'i, Spring and Autumn", want: "t'ien ch'i"},
		{name: "empty", displayName: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortName(tt.displayName))
			assert.Equal(t, tt.want, PlayerStatus{DisplayName: tt.displayName}.ShortName())
		})
	}
}

func TestShortName_StableAcrossFormatting(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 50; i++ {
		nation := faker.FirstName()
		variants := []string{
			nation,
			strings.ToUpper(nation),
			"  " + nation + "  ",
			nation + ", " + faker.Word() + " " + faker.Word(),
			strings.ToLower(nation) + "," + faker.Word(),
		}

		want := ShortName(nation)
		for _, v := range variants {
			assert.Equal(t, want, ShortName(v), "variant %q of %q", v, nation)
		}
	}
}

func TestLobbyStatus_TimeLeftText(t *testing.T) {
	left := "3 days left"
	assert.Equal(t, "3 days left", (&LobbyStatus{TimeLeft: &left}).TimeLeftText())
	assert.Equal(t, "", (&LobbyStatus{}).TimeLeftText())

	var nilStatus *LobbyStatus
	assert.Equal(t, "", nilStatus.TimeLeftText())
}
