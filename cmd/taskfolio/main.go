package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/go-kit/kit/log"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/gorilla/mux"
	"github.com/oklog/oklog/pkg/group"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	libgorm "gorm.io/gorm"

	"github.com/taskfolio/taskfolio/authsvc/pkg/authendpoint"
	"github.com/taskfolio/taskfolio/authsvc/pkg/authservice"
	"github.com/taskfolio/taskfolio/authsvc/pkg/authtransport"
	"github.com/taskfolio/taskfolio/config"
	"github.com/taskfolio/taskfolio/tasksvc"
	taskdb "github.com/taskfolio/taskfolio/tasksvc/db/gorm"
	"github.com/taskfolio/taskfolio/tasksvc/pkg/taskendpoint"
	"github.com/taskfolio/taskfolio/tasksvc/pkg/taskservice"
	"github.com/taskfolio/taskfolio/tasksvc/pkg/tasktransport"
	"github.com/taskfolio/taskfolio/usersvc"
	userdb "github.com/taskfolio/taskfolio/usersvc/db/gorm"
	"github.com/taskfolio/taskfolio/usersvc/pkg/userendpoint"
	"github.com/taskfolio/taskfolio/usersvc/pkg/userservice"
	"github.com/taskfolio/taskfolio/usersvc/pkg/usertransport"
	"github.com/taskfolio/taskfolio/usersvc/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("taskfolio", flag.ExitOnError)
	var (
		httpAddr    = fs.String("http.addr", cfg.HTTPAddr, "HTTP (JSON) listen address")
		databaseURL = fs.String("database.url", cfg.DatabaseURL, "Postgres URL (empty for a local sqlite file)")
		filesDir    = fs.String("files.dir", cfg.FilesDir, "directory for uploaded avatar files")
	)

	fs.Usage = usageFor(fs, os.Args[0]+" [flags]")
	fs.Parse(os.Args[1:])

	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	var db *libgorm.DB
	{
		if *databaseURL != "" {
			db, err = libgorm.Open(postgres.Open(*databaseURL), &libgorm.Config{})
		} else {
			db, err = libgorm.Open(sqlite.Open("taskfolio.db"), &libgorm.Config{})
		}
		if err != nil {
			logger.Log("err", err)
			os.Exit(1)
		}
	}

	db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{})

	var (
		tokens         = cfg.Tokens()
		userRepository = userdb.NewUserRepository(db)
		taskRepository = taskdb.NewTaskRepository(db)
		tokenizer      = authservice.NewTokenizer(tokens)
		hasher         = authservice.NewBcryptHasher(cfg.BcryptCost)
		avatars        = storage.NewDiskStore(*filesDir)
		fieldKeys      = []string{"method"}
	)

	var authService authservice.Service
	{
		authService = authservice.New(userRepository, tokenizer, hasher, logger)
		authService = authservice.InstrumentingMiddleware(
			kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
				Namespace: "api",
				Subsystem: "auth_service",
				Name:      "request_count",
				Help:      "Number of requests received.",
			}, fieldKeys),
			kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
				Namespace: "api",
				Subsystem: "auth_service",
				Name:      "request_latency_microseconds",
				Help:      "Total duration of requests in microseconds.",
			}, fieldKeys),
		)(authService)
	}

	var userService userservice.Service
	{
		userService = userservice.New(userRepository, hasher, avatars, logger)
		userService = userservice.InstrumentingMiddleware(
			kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
				Namespace: "api",
				Subsystem: "user_service",
				Name:      "request_count",
				Help:      "Number of requests received.",
			}, fieldKeys),
			kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
				Namespace: "api",
				Subsystem: "user_service",
				Name:      "request_latency_microseconds",
				Help:      "Total duration of requests in microseconds.",
			}, fieldKeys),
		)(userService)
	}

	var taskService taskservice.Service
	{
		taskService = taskservice.New(taskRepository, logger)
		taskService = taskservice.InstrumentingMiddleware(
			kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
				Namespace: "api",
				Subsystem: "task_service",
				Name:      "request_count",
				Help:      "Number of requests received.",
			}, fieldKeys),
			kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
				Namespace: "api",
				Subsystem: "task_service",
				Name:      "request_latency_microseconds",
				Help:      "Total duration of requests in microseconds.",
			}, fieldKeys),
		)(taskService)
	}

	var (
		authEndpoints = authendpoint.New(authService, logger)
		userEndpoints = userendpoint.New(userService, tokens, logger)
		taskEndpoints = taskendpoint.New(taskService, tokens, logger)
	)

	r := mux.NewRouter()

	r.PathPrefix("/auth").Handler(authtransport.NewHTTPHandler(authEndpoints, logger))
	r.PathPrefix("/users").Handler(usertransport.NewHTTPHandler(userEndpoints, tokens, logger))
	r.PathPrefix("/tasks").Handler(tasktransport.NewHTTPHandler(taskEndpoints, tokens, logger))
	r.PathPrefix("/files/").Handler(http.StripPrefix("/files/", http.FileServer(http.Dir(*filesDir))))
	r.Methods("GET").Path("/metrics").Handler(promhttp.Handler())

	var g group.Group
	{
		httpListener, err := net.Listen("tcp", *httpAddr)
		if err != nil {
			logger.Log("transport", "HTTP", "during", "Listen", "err", err)
			os.Exit(1)
		}
		g.Add(func() error {
			logger.Log("transport", "HTTP", "addr", *httpAddr)
			return http.Serve(httpListener, r)
		}, func(error) {
			httpListener.Close()
		})
	}
	{
		// This function just sits and waits for ctrl-C.
		cancelInterrupt := make(chan struct{})
		g.Add(func() error {
			c := make(chan os.Signal, 1)
			signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-c:
				return fmt.Errorf("received signal %s", sig)
			case <-cancelInterrupt:
				return nil
			}
		}, func(error) {
			close(cancelInterrupt)
		})
	}
	logger.Log("exit", g.Run())
}

func usageFor(fs *flag.FlagSet, short string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "USAGE\n")
		fmt.Fprintf(os.Stderr, "  %s\n", short)
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "FLAGS\n")
		w := tabwriter.NewWriter(os.Stderr, 0, 2, 2, ' ', 0)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(w, "\t-%s %s\t%s\n", f.Name, f.DefValue, f.Usage)
		})
		w.Flush()
		fmt.Fprintf(os.Stderr, "\n")
	}
}
