package gameservice

import (
	"testing"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	gamedb "github.com/grogbot/dominions-bot/app/modules/game/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
)

func TestRenderSnapshot(t *testing.T) {
	game := &gamedb.Game{Name: "grog", Turn: 12, TimeLeft: strPtr("7 hours left")}
	players := []gamedb.Player{
		{Nation: "Arcosophale, The Golden Era", TurnState: "played", PlayerName: strPtr("stebe")},
		{Nation: "Ermor, New Faith", TurnState: "unknown", StatusText: "Eliminated"},
		{Nation: "Mictlan", TurnState: "unfinished"},
	}

	want := "Dominions Times\n" +
		"grog Turn: 12\n" +
		"Time left: 7 hours left\n" +
		"Player list\n" +
		":white_check_mark: Arcosophale, The Golden Era (stebe)\n" +
		":skull: Ermor, New Faith - Eliminated\n" +
		":question: Mictlan\n"
	assert.Equal(t, want, RenderSnapshot(game, players))
}

func TestRenderLobbyStatus(t *testing.T) {
	status := lobby(5, strPtr("3 days left"), nation("Arcosophale", gamedomain.TurnPlayed), nation("Ulm", gamedomain.TurnNotSubmitted))
	got := RenderLobbyStatus("testserver", status)
	assert.Equal(t, "testserver Turn: 5\nTime left: 3 days left\nPlayer list\n:white_check_mark: Arcosophale\n:x: Ulm\n", got)
}

func TestRenderGameList(t *testing.T) {
	assert.Equal(t, "No games are being tracked", RenderGameList(nil))

	got := RenderGameList([]gamedb.Game{
		{Name: "Handsomeboiz_MA", Nickname: strPtr("HB_MA"), Turn: 3, Active: true, Primary: true},
		{Name: "oldgame", Turn: 80},
	})
	assert.Equal(t, "Handsomeboiz_MA (HB_MA) turn 3 [primary]\noldgame turn 80 [inactive]", got)
}
