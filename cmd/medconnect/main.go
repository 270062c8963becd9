// Command medconnect is a terminal front end for the medconnect API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"medconnect/internal/apiclient"
	"medconnect/internal/config"
	"medconnect/internal/notify"
	"medconnect/internal/session"
)

// app carries what every subcommand needs.
type app struct {
	cfg      *config.Config
	store    session.Store
	session  *session.Session
	client   *apiclient.Client
	notifier notify.Notifier
	out      io.Writer
}

type command struct {
	usage string
	// needs a stored session
	auth bool
	run  func(ctx context.Context, a *app, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":     {usage: "login <email|mobile> <password>", run: runLogin},
		"logout":    {usage: "logout", run: runLogout},
		"book":      {usage: "book -doctor ID -date YYYY-MM-DD -slot N [-for NAME -email E -mobile M]", auth: true, run: runBook},
		"history":   {usage: "history [-search TERM] [-page N]", auth: true, run: runHistory},
		"cancel":    {usage: "cancel <appointment-id>", auth: true, run: runCancel},
		"queue":     {usage: "queue [-search TERM] [-page N]", auth: true, run: runQueue},
		"accept":    {usage: "accept <appointment-id>", auth: true, run: runAccept},
		"reject":    {usage: "reject <appointment-id>", auth: true, run: runReject},
		"record":    {usage: "record <appointment-id> [-disease D]... [-drug D]... [-notes TEXT]", auth: true, run: runRecord},
		"all":       {usage: "all [-search TERM] [-page N]", auth: true, run: runAll},
		"delete":    {usage: "delete <appointment-id>", auth: true, run: runDelete},
		"search":    {usage: "search <query>", run: runSearch},
		"apply":     {usage: "apply -specialization S -regno NNNNNN -center C -place P -certificate FILE", auth: true, run: runApply},
		"approvals": {usage: "approvals [-status pending|active|block] [-search TERM] [-page N]", auth: true, run: runApprovals},
		"verify":    {usage: "verify <user-id> <pending|active|block>", auth: true, run: runVerify},
		"users":     {usage: "users [-search TERM] [-page N]", auth: true, run: runUsers},
		"promote":   {usage: "promote <user-id> <user|doctor|admin>", auth: true, run: runPromote},
		"deluser":   {usage: "deluser <user-id>", auth: true, run: runDeleteUser},

		"feed":       {usage: "feed [-mine] [-pages N]", auth: true, run: runFeed},
		"post":       {usage: "post -video FILE [-description TEXT]", auth: true, run: runPost},
		"editpost":   {usage: "editpost <post-id> <description>", auth: true, run: runEditPost},
		"delpost":    {usage: "delpost <post-id>", auth: true, run: runDeletePost},
		"like":       {usage: "like <post-id>", auth: true, run: runLike},
		"comments":   {usage: "comments <post-id>", auth: true, run: runComments},
		"comment":    {usage: "comment <post-id> <text>", auth: true, run: runComment},
		"delcomment": {usage: "delcomment <post-id> <comment-id>", auth: true, run: runDeleteComment},
		"profile":    {usage: "profile <user-id>", auth: true, run: runProfile},
		"follow":     {usage: "follow <user-id>", auth: true, run: runFollow},
		"unfollow":   {usage: "unfollow <user-id>", auth: true, run: runUnfollow},
		"review":     {usage: "review <doctor-id> -rating 1-5 -text TEXT", auth: true, run: runReview},
		"delreview":  {usage: "delreview <doctor-id> <review-id>", auth: true, run: runDeleteReview},
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: medconnect <command> [flags]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	config.SetupLogging(cfg)

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		usage()
		os.Exit(2)
	}

	a := &app{
		cfg:      cfg,
		store:    session.Store{Path: cfg.Client.TokenFile},
		notifier: notify.NewLogNotifier(nil),
		out:      os.Stdout,
	}
	if cmd.auth {
		a.session, err = a.store.Load()
		if errors.Is(err, session.ErrNoSession) {
			log.Fatalf("Not logged in; run: medconnect login <email|mobile> <password>")
		}
		if err != nil {
			log.Fatalf("Error loading session: %v", err)
		}
	}

	var tokens apiclient.TokenSource
	if a.session != nil {
		tokens = a.session
	}
	a.client, err = apiclient.New(cfg.Client.APIBaseURL, tokens, apiclient.WithTimeout(cfg.Client.RequestTimeout))
	if err != nil {
		log.Fatalf("Error creating API client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, a, flag.Args()[1:]); err != nil {
		// the notifier has already reported the failure to the user
		log.Debugf("%s: %v", flag.Arg(0), err)
		stop()
		os.Exit(1)
	}
}
