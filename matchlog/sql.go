package matchlog

const createMatchTable = `
CREATE TABLE IF NOT EXISTS matches (
  id integer primary key autoincrement,
  played_at integer not null,
  white varchar not null,
  black varchar not null,
  outcome text not null,
  reason text not null,
  loser text,
  plies int,
  time_control_ms int,
  white_left_ms int,
  black_left_ms int,
  start_fen text,
  pgn text
)`

const createBotView = `
CREATE VIEW IF NOT EXISTS bot_matches (
  id, bot, opponent, color, win, reason, plies
) AS
SELECT id, white, black, 'white',
       CASE outcome WHEN '1-0' THEN 'win' WHEN '0-1' THEN 'lose' ELSE 'draw' END,
       reason, plies
 FROM matches
UNION ALL
SELECT id, black, white, 'black',
       CASE outcome WHEN '0-1' THEN 'win' WHEN '1-0' THEN 'lose' ELSE 'draw' END,
       reason, plies
 FROM matches
`

const insertStmt = `
INSERT INTO matches (
  played_at, white, black, outcome, reason, loser, plies,
  time_control_ms, white_left_ms, black_left_ms, start_fen, pgn
) VALUES (
  :played_at, :white, :black, :outcome, :reason, :loser, :plies,
  :time_control_ms, :white_left_ms, :black_left_ms, :start_fen, :pgn
)`

const selectRecent = `
SELECT * FROM matches ORDER BY played_at DESC, id DESC LIMIT ?
`

const selectStanding = `
SELECT bot,
       SUM(CASE win WHEN 'win' THEN 1 ELSE 0 END) AS wins,
       SUM(CASE win WHEN 'lose' THEN 1 ELSE 0 END) AS losses,
       SUM(CASE win WHEN 'draw' THEN 1 ELSE 0 END) AS draws
 FROM bot_matches
 GROUP BY bot
 ORDER BY wins DESC, bot
`
