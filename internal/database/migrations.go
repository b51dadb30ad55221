package database

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Players: a name and the token a client presents to reclaim its seat
			CREATE TABLE players (
				id TEXT PRIMARY KEY,
				token TEXT UNIQUE NOT NULL,
				name TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				last_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_players_token ON players(token);

			CREATE TABLE games (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				map_id TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'active',
				settings_json TEXT NOT NULL,
				seats_json TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				ended_at DATETIME,
				end_reason TEXT
			);
			CREATE INDEX idx_games_status ON games(status);

			-- Seats: which player record plays which engine seat
			CREATE TABLE game_seats (
				game_id TEXT NOT NULL,
				seat INTEGER NOT NULL,
				player_id TEXT NOT NULL,
				joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (game_id, seat),
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE,
				FOREIGN KEY (player_id) REFERENCES players(id)
			);
			CREATE INDEX idx_game_seats_player ON game_seats(player_id);

			-- Latest snapshot of each game, as JSON and as tensor text
			CREATE TABLE game_state (
				game_id TEXT PRIMARY KEY,
				state_json TEXT NOT NULL,
				tensor TEXT NOT NULL,
				current_player INTEGER NOT NULL,
				state_kind TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);

			-- Every accepted action, in order, for replay
			CREATE TABLE game_actions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				game_id TEXT NOT NULL,
				player INTEGER NOT NULL,
				action_type TEXT NOT NULL,
				action_json TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_game_actions_game ON game_actions(game_id);
		`,
	},
	{
		id:   2,
		name: "add_game_history",
		sql: `
			CREATE TABLE game_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				game_id TEXT NOT NULL,
				player INTEGER NOT NULL,
				player_name TEXT NOT NULL,
				event_type TEXT NOT NULL,
				message TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_game_history_game ON game_history(game_id);
		`,
	},
}
