package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"linkcut.local/gee"
	"linkcut.local/gee/middleware"
	"linkcut.local/internal/app/shortener"
	urlcache "linkcut.local/internal/app/shortener/cache"
	"linkcut.local/internal/app/shortener/httpapi"
	"linkcut.local/internal/app/shortener/memstore"
	"linkcut.local/internal/app/shortener/repo"
	"linkcut.local/internal/platform/auth"
	platformcache "linkcut.local/internal/platform/cache"
	"linkcut.local/internal/platform/config"
	"linkcut.local/internal/platform/db"
	"linkcut.local/internal/platform/httpmiddleware"
	"linkcut.local/internal/platform/httpserver"
	"linkcut.local/internal/platform/metrics"
	"linkcut.local/internal/platform/migrate"
	"linkcut.local/internal/platform/trace"
	"linkcut.local/migrations"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// codeSource 能遍历所有已发出的短码，用来预热布隆过滤器
type codeSource interface {
	EachCode(ctx context.Context, fn func(code string)) error
}

type stores struct {
	urls  shortener.URLStore
	users shortener.UserStore
	codes codeSource
	pool  *pgxpool.Pool // memory 驱动下为 nil
	close func()
}

func openStores(cfg config.Config) stores {
	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory store, data is lost on restart", "STORE_DRIVER", cfg.StoreDriver)
		m := memstore.New()
		return stores{urls: m.URLs(), users: m.Users(), codes: m.URLs(), close: func() {}}
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	pool, err := db.New(dbCtx, cfg.DBDSN, db.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("database connected")

	if cfg.MigrationsEnabled {
		migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := migrate.Up(migCtx, pool, migrate.Options{FS: migrations.FS})
		if err != nil {
			log.Fatal(err)
		}
		slog.Info("migrations applied", "applied", res.AppliedFiles, "skipped", len(res.SkippedFiles))
	}

	// 缓存：Redis 为 L2，ristretto 为 L1
	var c *urlcache.URLCache
	closers := []func(){pool.Close}
	if cfg.CacheEnabled {
		redisClient, err := platformcache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		var local *urlcache.LocalCache
		if cfg.LocalCacheEnabled {
			local, err = urlcache.NewLocalCache(100_000)
			if err != nil {
				log.Fatal(err)
			}
		}
		c = urlcache.NewURLCache(redisClient, local)
		closers = append(closers, c.Close, func() { _ = redisClient.Close() })
	} else {
		slog.Warn("cache disabled by config", "CACHE_ENABLED", false)
	}

	urls := repo.NewURLsRepo(pool, c)
	return stores{
		urls:  urls,
		users: repo.NewUsersRepo(pool),
		codes: urls,
		pool:  pool,
		close: func() {
			// 逆序关闭，连接池最后关
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	slog.SetDefault(slog.New(h))

	st := openStores(cfg)
	defer st.close()

	metrics.Init()

	opts := []shortener.Option{
		shortener.WithMaxAttempts(cfg.CodeMaxAttempts),
		shortener.WithRecorder(metrics.Recorder{}),
	}
	if cfg.BloomEnabled {
		bloom := urlcache.NewBloomFilter(cfg.BloomExpectedItems, cfg.BloomFPRate)
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := st.codes.EachCode(seedCtx, bloom.Add); err != nil {
			// 预热失败只会多几次查库，不影响正确性
			slog.Warn("bloom filter seed failed", "err", err)
		}
		cancel()
		slog.Info("bloom filter ready", "codes", bloom.Count())
		opts = append(opts, shortener.WithCodeFilter(bloom))
	}
	urlService := shortener.NewURLService(st.urls, shortener.HexGenerator{}, opts...)

	// JWT
	ts, err := auth.NewHS256Service(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "change-me" {
		slog.Warn("JWT_SECRET is the default value, set it in production")
	}
	accounts := shortener.NewAccountService(st.users, auth.NewBcryptHasher(), auth.Issuer{Tokens: ts})

	if cfg.TracingEnabled {
		shutdown, err := trace.InitTrace(cfg.OtlpGrpcEndpoint, cfg.ServiceName)
		if err != nil {
			slog.Error("trace init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error(err.Error())
				}
			}()
		}
	} else {
		slog.Warn("Tracing disabled by config", "TRACING_ENABLED", false)
	}

	// 对外业务
	r := gee.New()
	r.Use(gee.Recovery(), middleware.ReqID(), middleware.AccessLog(), httpmiddleware.Metrics(), httpmiddleware.TraceName())

	// 静态路由优先于 /:code
	r.GET("/healthz", func(ctx *gee.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	httpapi.RegisterRoutes(r, httpapi.Deps{
		URLs:          urlService,
		Accounts:      accounts,
		Tokens:        ts,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	publicHandler := http.Handler(r)
	if cfg.TracingEnabled {
		publicHandler = otelhttp.NewHandler(r, "http")
	}
	publicSrv := httpserver.New(cfg, cfg.Addr, publicHandler)

	// 仅本机/内网
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if st.pool == nil {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("memory store ready"))
			return
		}
		dbCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := st.pool.Ping(dbCtx); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("DB Ping Err"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("DB ready"))
	})

	adminMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name": cfg.ServiceName,
			"version":      version,
			"commit":       commit,
			"build_time":   buildTime,
			"go_version":   runtime.Version(),
			"store_driver": cfg.StoreDriver,
		})
	})

	if cfg.PprofEnabled {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	adminSrv := httpserver.New(cfg, cfg.AdminAddr, adminMux)

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errch := make(chan error, 2)
	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(publicSrv, cfg.ShutdownTimeout, stopCtx)
	}()
	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(adminSrv, cfg.ShutdownTimeout, stopCtx)
	}()
	slog.Info("linkcut started", "addr", cfg.Addr, "admin_addr", cfg.AdminAddr, "store", cfg.StoreDriver)

	if err := <-errch; err != nil {
		stop()
		select {
		case <-errch:
		case <-time.After(cfg.ShutdownTimeout + time.Second):
		}
		st.close()
		log.Fatal(err)
	}

	stop()
	<-errch
}
