package gamehandlers

const generalHelp = `*Dominions Bot Help*

Here are the available commands:

1. */dom game add [game_name]* add a game to tracking
2. */dom game remove [game_name]* stop tracking a game
3. */dom game nickname [game_name] [nickname]* set a nickname for a game
4. */dom game list [all]* list tracked games
5. */dom game primary [game_name]* set the primary game
6. */dom game status [game_name] [active|inactive]* pause or resume tracking
7. */dom game refresh [game_name]* check a tracked game for a new turn now
8. */dom player [game_name] [nation] [player_name]* name the player of a nation
9. */check [game_name]* fetch the live status of any game
10. */turn* show the primary game

For details on one command use: /dom help [command]`

var commandHelp = map[CommandName]string{
	CommandGameAdd:      "*/dom game add [game_name]*\nAdd a new game to the bot's tracking. A removed game is re-activated.\nExample: `/dom game add Handsomeboiz_MA`",
	CommandGameRemove:   "*/dom game remove [game_name]*\nRemove a game from the bot's tracking.\nExample: `/dom game remove Handsomeboiz_MA`",
	CommandGameNickname: "*/dom game nickname [game_name] [nickname]*\nSet a nickname for a game.\nExample: `/dom game nickname Handsomeboiz_MA HB_MA`",
	CommandGameList:     "*/dom game list [all]*\nList active games. Add `all` to include removed games.\nExample: `/dom game list`",
	CommandGamePrimary:  "*/dom game primary [game_name]*\nSet a game as the primary game used by /turn.\nExample: `/dom game primary Handsomeboiz_MA`",
	CommandGameStatus:   "*/dom game status [game_name] [active|inactive]*\nPause or resume turn tracking for a game.\nExample: `/dom game status Handsomeboiz_MA inactive`",
	CommandGameRefresh:  "*/dom game refresh [game_name]*\nFetch a tracked game now instead of waiting for the next poll.\nExample: `/dom game refresh Handsomeboiz_MA`",
	CommandPlayer:       "*/dom player [game_name] [nation] [player_name]*\nAssociate a player name with a nation in a specific game.\nExample: `/dom player Handsomeboiz_MA arcosophale stebe`",
	CommandCheck:        "*/check [game_name]*\nFetch the current status of a game, including player statuses and turn timer.\nExample: `/check Handsomeboiz_MA`",
	CommandTurn:         "*/turn*\nDisplay the stored turn status of the primary game.",
	CommandHelp:         "*/dom help [command]*\nShow help for all commands or for one.\nExample: `/dom help game add`",
}
