package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bloops-games/sketchy/internal/buildinfo"
	"github.com/bloops-games/sketchy/internal/cache"
	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/database"
	resultdb "github.com/bloops-games/sketchy/internal/database/result/database"
	roomdb "github.com/bloops-games/sketchy/internal/database/room/database"
	roommodel "github.com/bloops-games/sketchy/internal/database/room/model"
	worddb "github.com/bloops-games/sketchy/internal/database/word/database"
	wordmodel "github.com/bloops-games/sketchy/internal/database/word/model"
	"github.com/bloops-games/sketchy/internal/logging"
	"github.com/bloops-games/sketchy/internal/shutdown"
	"github.com/kelseyhightower/envconfig"
)

var version string

var errUsage = errors.New("usage: sketchy-cli <seed-words|add-word|words|create-room|assign-teams|random-teams|results> [flags]")

type Config struct {
	Debug bool `envconfig:"SKETCHY_DEBUG" default:"false"`
	DB    database.Config
}

func main() {
	_, _ = fmt.Fprintf(os.Stdout, buildinfo.GreetingCLI, buildinfo.ProjectName, version)

	ctx, done := shutdown.New()
	defer done()

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config, os.Args[1:]); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config Config, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	db, err := database.NewFromEnv(ctx, &config.DB)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	roomCache, err := cache.NewARC[string, roommodel.Room](64)
	if err != nil {
		return fmt.Errorf("can not create room cache: %w", err)
	}

	wordCache, err := cache.NewARC[category.Category, []wordmodel.Word](category.Total)
	if err != nil {
		return fmt.Errorf("can not create word cache: %w", err)
	}

	c := &cli{
		rooms:   roomdb.New(db, roomCache),
		words:   worddb.New(db, wordCache),
		results: resultdb.New(db),
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "seed-words":
		return c.seedWords()
	case "add-word":
		return c.addWord(rest)
	case "words":
		return c.countWords()
	case "create-room":
		return c.createRoom(rest)
	case "assign-teams":
		return c.assignTeams(rest, false)
	case "random-teams":
		return c.assignTeams(rest, true)
	case "results":
		return c.printResults(rest)
	default:
		return fmt.Errorf("%q: %w", cmd, errUsage)
	}
}

type cli struct {
	rooms   *roomdb.DB
	words   *worddb.DB
	results *resultdb.DB
}

func (c *cli) seedWords() error {
	n, err := c.words.Seed(wordmodel.Defaults())
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if n == 0 {
		fmt.Println("word bank is not empty, nothing seeded")
		return nil
	}

	fmt.Printf("seeded %d words\n", n)
	return nil
}

func (c *cli) addWord(args []string) error {
	fs := flag.NewFlagSet("add-word", flag.ContinueOnError)
	rawCategory := fs.String("category", "", "word category")
	text := fs.String("text", "", "word text")
	difficulty := fs.String("difficulty", string(wordmodel.Medium), "easy, medium or hard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := category.Parse(*rawCategory)
	if err != nil {
		return err
	}

	w := wordmodel.NewWord(cat, *text, wordmodel.Difficulty(*difficulty))
	if err := c.words.Add(w); err != nil {
		return fmt.Errorf("add word: %w", err)
	}

	fmt.Printf("added %s to %s\n", w.ID, cat)
	return nil
}

func (c *cli) countWords() error {
	counts, err := c.words.CountByCategory()
	if err != nil {
		return fmt.Errorf("count words: %w", err)
	}

	for _, cat := range category.All() {
		fmt.Printf("%-8s %d\n", cat, counts[cat])
	}

	return nil
}

func (c *cli) createRoom(args []string) error {
	fs := flag.NewFlagSet("create-room", flag.ContinueOnError)
	code := fs.String("code", "", "room code, generated when empty")
	host := fs.String("host", "", "host user id")
	victory := fs.String("victory", "first_to_3", "first_to_3, first_to_5 or all_categories")
	shuffle := fs.Bool("shuffle", false, "shuffle the turn order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *host == "" {
		return fmt.Errorf("host is required: %w", errUsage)
	}

	if *code == "" {
		*code = roommodel.NewCode()
	}

	room := roommodel.NewRoom(strings.ToUpper(*code), *host, *victory)
	room.ShuffleTurns = *shuffle
	if err := c.rooms.Create(room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	fmt.Printf("room %s created (%s)\n", room.Code, room.ID)
	return nil
}

// parsePlayers reads "id:name,id:name" lists.
func parsePlayers(raw string) []roommodel.Player {
	var players []roommodel.Player
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		id, name, ok := strings.Cut(item, ":")
		if !ok {
			name = id
		}
		players = append(players, roommodel.Player{UserID: id, Username: name})
	}

	return players
}

func (c *cli) assignTeams(args []string, random bool) error {
	fs := flag.NewFlagSet("assign-teams", flag.ContinueOnError)
	code := fs.String("code", "", "room code")
	team1 := fs.String("team1", "", "team 1 players as id:name,id:name")
	team2 := fs.String("team2", "", "team 2 players as id:name,id:name")
	players := fs.String("players", "", "players to split randomly as id:name,id:name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	roomCode := strings.ToUpper(*code)

	var (
		room roommodel.Room
		err  error
	)
	if random {
		room, err = c.rooms.AssignTeamsRandomly(roomCode, parsePlayers(*players))
	} else {
		room, err = c.rooms.AssignTeams(roomCode, parsePlayers(*team1), parsePlayers(*team2))
	}
	if err != nil {
		return fmt.Errorf("assign teams: %w", err)
	}

	for _, team := range room.Teams {
		names := make([]string, 0, len(team.Players))
		for _, p := range team.Players {
			names = append(names, p.Username)
		}
		fmt.Printf("team %d: %s\n", team.Number, strings.Join(names, ", "))
	}

	return nil
}

func (c *cli) printResults(args []string) error {
	fs := flag.NewFlagSet("results", flag.ContinueOnError)
	code := fs.String("code", "", "room code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	games, err := c.results.FetchByRoomCode(strings.ToUpper(*code))
	if err != nil {
		return fmt.Errorf("fetch results: %w", err)
	}

	for _, g := range games {
		fmt.Printf("%s winner=%s rounds=%d duration=%s\n", g.GameID, g.WinnerTeamID, g.Rounds, g.Duration())
		rounds, err := c.results.FetchRounds(g.GameID)
		if err != nil {
			return fmt.Errorf("fetch rounds: %w", err)
		}
		for _, r := range rounds {
			fmt.Printf("  #%d %s %s by %s/%s in %ds\n", r.RoundNumber, r.Category, r.Status, r.DrawerID, r.GuesserID, r.TimeElapsed)
		}
	}

	return nil
}
