package tips

const TaskQueueName = "betting-tips-task-queue"

// The tip service exposes two endpoints under TIPSTER_API_URL:
//   {base}/jogos-do-dia?sport={sport}      fixtures of the day grouped by league
//   {base}/analisar-jogo?game_id={game_id} tips for one game

// DefaultSports fills the sport selector when SPORTS is not set
var DefaultSports = []Sport{
	{ID: "soccer", Name: "Soccer"},
	{ID: "basketball", Name: "Basketball"},
	{ID: "tennis", Name: "Tennis"},
	{ID: "hockey", Name: "Hockey"},
	{ID: "baseball", Name: "Baseball"},
}
