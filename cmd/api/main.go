package main

import (
	"context"
	"database/sql"
	"expvar"
	"net/url"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/myk4040okothogodo/movieitems/internal/data"
)

const version = "1.0.0"

const (
	portFlag               = "port"
	envFlag                = "env"
	storeFlag              = "store"
	dbURLFlag              = "db-url"
	dbKeyFlag              = "db-key"
	dbTableFlag            = "db-table"
	dbMaxOpenConnsFlag     = "db-max-open-conns"
	dbMaxIdleConnsFlag     = "db-max-idle-conns"
	dbMaxIdleTimeFlag      = "db-max-idle-time"
	limiterRPSFlag         = "limiter-rps"
	limiterBurstFlag       = "limiter-burst"
	limiterEnabledFlag     = "limiter-enabled"
	corsTrustedOriginsFlag = "cors-trusted-origins"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

// config holds everything read from flags and the environment at startup.
// Nothing in it changes once the server is running.
type config struct {
	port  int
	env   string
	store string
	db    struct {
		url          string
		key          string
		table        string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	cors struct {
		trustedOrigins []string
	}
}

// application holds the dependencies shared by handlers, helpers and
// middleware.
type application struct {
	config config
	models data.Models
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("failed to load .env file")
	}

	app := cli.NewApp()
	app.Name = "movieitems"
	app.Usage = "Serves the movie items REST API"
	app.Version = version
	configure(app)

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("failed to run app")
	}
}

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	app.Commands = []cli.Command{serveCMD}
}

func makeServeCMD() cli.Command {
	serveCMD := cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves web server",
		Action:  serve,
	}
	serveCMD.Flags = registerFlags(serveCMD.Flags)
	return serveCMD
}

func registerFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.IntFlag{
			Name:   portFlag,
			Usage:  "API server port",
			Value:  3000,
			EnvVar: "PORT",
		},
		cli.StringFlag{
			Name:   envFlag,
			Usage:  "environment (development|test|staging|production)",
			Value:  "development",
			EnvVar: "APP_ENV,NODE_ENV",
		},
		cli.StringFlag{
			Name:   storeFlag,
			Usage:  "item store (postgres|memory)",
			Value:  storePostgres,
			EnvVar: "ITEMS_STORE",
		},
		cli.StringFlag{
			Name:   dbURLFlag,
			Usage:  "PostgreSQL connection URL",
			EnvVar: "SUPABASE_URL,DATABASE_URL",
		},
		cli.StringFlag{
			Name:   dbKeyFlag,
			Usage:  "PostgreSQL password, used when the URL has none",
			EnvVar: "SUPABASE_ANON_KEY,DATABASE_PASSWORD",
		},
		cli.StringFlag{
			Name:   dbTableFlag,
			Usage:  "table holding the items",
			Value:  "movies_simple",
			EnvVar: "ITEMS_TABLE",
		},
		cli.IntFlag{
			Name:   dbMaxOpenConnsFlag,
			Usage:  "PostgreSQL max open connections",
			Value:  25,
			EnvVar: "DB_MAX_OPEN_CONNS",
		},
		cli.IntFlag{
			Name:   dbMaxIdleConnsFlag,
			Usage:  "PostgreSQL max idle connections",
			Value:  25,
			EnvVar: "DB_MAX_IDLE_CONNS",
		},
		cli.DurationFlag{
			Name:   dbMaxIdleTimeFlag,
			Usage:  "PostgreSQL max connection idle time",
			Value:  15 * time.Minute,
			EnvVar: "DB_MAX_IDLE_TIME",
		},
		cli.Float64Flag{
			Name:   limiterRPSFlag,
			Usage:  "rate limiter maximum requests per second",
			Value:  2,
			EnvVar: "LIMITER_RPS",
		},
		cli.IntFlag{
			Name:   limiterBurstFlag,
			Usage:  "rate limiter maximum burst",
			Value:  4,
			EnvVar: "LIMITER_BURST",
		},
		cli.BoolFlag{
			Name:   limiterEnabledFlag,
			Usage:  "enable the per-client rate limiter (off unless set)",
			EnvVar: "LIMITER_ENABLED",
		},
		cli.StringFlag{
			Name:   corsTrustedOriginsFlag,
			Usage:  "trusted CORS origins (space separated, * for any)",
			Value:  "*",
			EnvVar: "CORS_TRUSTED_ORIGINS",
		},
	)
}

func newConfig(c *cli.Context) (config, error) {
	var cfg config
	cfg.port = c.Int(portFlag)
	cfg.env = c.String(envFlag)
	cfg.store = c.String(storeFlag)
	cfg.db.url = c.String(dbURLFlag)
	cfg.db.key = c.String(dbKeyFlag)
	cfg.db.table = c.String(dbTableFlag)
	cfg.db.maxOpenConns = c.Int(dbMaxOpenConnsFlag)
	cfg.db.maxIdleConns = c.Int(dbMaxIdleConnsFlag)
	cfg.db.maxIdleTime = c.Duration(dbMaxIdleTimeFlag)
	cfg.limiter.rps = c.Float64(limiterRPSFlag)
	cfg.limiter.burst = c.Int(limiterBurstFlag)
	cfg.limiter.enabled = c.Bool(limiterEnabledFlag)
	cfg.cors.trustedOrigins = strings.Fields(c.String(corsTrustedOriginsFlag))

	switch cfg.store {
	case storePostgres:
		if cfg.db.url == "" {
			return cfg, errors.Errorf("--%s is required for the %s store", dbURLFlag, storePostgres)
		}
	case storeMemory:
	default:
		return cfg, errors.Errorf("unknown store %q", cfg.store)
	}
	if cfg.db.table == "" {
		return cfg, errors.Errorf("--%s must not be empty", dbTableFlag)
	}
	return cfg, nil
}

func configureLogger(env string) {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if env == "test" {
		log.SetLevel(log.ErrorLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func serve(c *cli.Context) error {
	cfg, err := newConfig(c)
	if err != nil {
		return err
	}
	configureLogger(cfg.env)

	app := &application{config: cfg}

	switch cfg.store {
	case storeMemory:
		app.models = data.NewMemoryModels()
		log.Warn("using in-memory item store, nothing will be persisted")
	default:
		db, err := openDB(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to open database")
		}
		defer db.Close()
		log.WithField("table", cfg.db.table).Info("database connection pool established")

		expvar.Publish("database", expvar.Func(func() interface{} {
			return db.Stats()
		}))
		app.models = data.NewModels(db, cfg.db.table)
	}

	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() interface{} {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("timestamp", expvar.Func(func() interface{} {
		return time.Now().Unix()
	}))

	return app.serve()
}

// dsn returns the connection URL with the configured key set as password
// when the URL doesn't carry one.
func dsn(cfg config) (string, error) {
	if cfg.db.key == "" {
		return cfg.db.url, nil
	}
	u, err := url.Parse(cfg.db.url)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse database url")
	}
	if u.User == nil {
		return "", errors.New("database url has no user to attach the key to")
	}
	if _, ok := u.User.Password(); !ok {
		u.User = url.UserPassword(u.User.Username(), cfg.db.key)
	}
	return u.String(), nil
}

func openDB(cfg config) (*sql.DB, error) {
	connStr, err := dsn(cfg)
	if err != nil {
		return nil, err
	}

	// sql.Open() only builds an empty pool; no connection is made until the
	// first query, which is why we ping below.
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Cap the pool (in-use + idle). A value <= 0 means no limit for either
	// setting, so a hosted database with a small connection quota should
	// always get explicit numbers here.
	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)

	// Idle connections older than this are closed and removed from the pool.
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	// Give the database five seconds to answer. If it can't, startup fails
	// here rather than on the first request.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
