package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SimpleMOOC/internal/app/server"
	"SimpleMOOC/internal/config"
	"SimpleMOOC/internal/delivery/http"
	"SimpleMOOC/internal/delivery/http/controllers/middleware"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/events"
	"SimpleMOOC/internal/mail"
	"SimpleMOOC/internal/service"
	"SimpleMOOC/internal/service/auth"
	"SimpleMOOC/internal/service/course/access"
	"SimpleMOOC/internal/service/course/board"
	"SimpleMOOC/internal/service/course/catalog"
	"SimpleMOOC/internal/service/course/enrollment"
	"SimpleMOOC/internal/service/course/management"
	"SimpleMOOC/internal/service/notification"
	"SimpleMOOC/internal/storage"
	"SimpleMOOC/internal/storage/elastic"
	"SimpleMOOC/internal/storage/memory"
	"SimpleMOOC/internal/storage/minio_storage"
	"SimpleMOOC/internal/storage/observed"
	"SimpleMOOC/internal/storage/postgres"
	"SimpleMOOC/internal/storage/redis_cache"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
)

// App is the wired application. Close releases what New opened.
type App struct {
	Router   *gin.Engine
	Bus      *events.Bus
	Repos    storage.Repositories
	Services service.Collection

	// Announcements publishes AnnouncementCreated on every insert.
	Announcements storage.AnnouncementRepository

	closers []func()
}

// Options overrides collaborators that are otherwise built from the config.
type Options struct {
	Transport mail.Transport
	Now       func() time.Time
}

func New(ctx context.Context, cfg *config.Config, log logger.Log, opts Options) (*App, error) {
	a := &App{}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	components := map[string]string{
		"storage":        config.StoragePostgres,
		"object_storage": "disabled",
		"search":         "store",
		"rate_limit":     "disabled",
		"mail":           cfg.Mail.Backend,
		"notifications":  "sync",
	}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		a.Repos = memory.New().Repositories()
		components["storage"] = config.StorageMemory
		log.Info("using in-memory storage")
	default:
		pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if !cfg.Postgres.SkipMigrations {
			applied, err := postgres.NewMigrator(pg.Pool).Up(ctx)
			if err != nil {
				a.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied", "versions", applied)
		}
		a.Repos = pg.Repositories()
	}

	// optional collaborators stay nil interfaces when not configured
	var (
		images    storage.ImageStorage
		resources storage.ResourceStorage
		index     storage.CourseIndex
	)

	if cfg.Minio.Endpoint != "" {
		ms, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		imgBucket := cfg.Minio.Buckets[config.BucketImages]
		imageStorage, err := minio_storage.NewImageStorage(ctx, ms, imgBucket.Name, imgBucket.PresignTTL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("minio images bucket: %w", err)
		}
		matBucket := cfg.Minio.Buckets[config.BucketMaterials]
		resourceStorage, err := minio_storage.NewResourceStorage(ctx, ms, matBucket.Name, matBucket.PresignTTL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("minio materials bucket: %w", err)
		}
		images, resources = imageStorage, resourceStorage
		components["object_storage"] = "minio"
	}

	if len(cfg.ES.Hosts) > 0 {
		client, err := elastic.NewElasticClient(ctx, elastic.ClientConfig{
			Hosts:      cfg.ES.Hosts,
			Username:   cfg.ES.Username,
			Password:   cfg.ES.Password,
			MaxRetries: cfg.ES.MaxRetries,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		searchRepo := elastic.NewCourseSearchRepository(client, cfg.ES.Index)
		if err := searchRepo.CreateIndexIfNotExist(ctx); err != nil {
			log.ErrorErr("search index unavailable, using store search", err)
		} else {
			index = searchRepo
			components["search"] = "elasticsearch"
			reindex(ctx, log, a.Repos.Courses, searchRepo)
		}
	}

	limiter := middleware.NewRateLimiter(log, nil)
	if cfg.Redis.Address != "" {
		client, err := redis_cache.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.ErrorErr("redis unavailable, rate limiting disabled", err)
		} else {
			a.closers = append(a.closers, func() { _ = client.Close() })
			limiter = middleware.NewRateLimiter(log, client)
			components["rate_limit"] = "redis"
		}
	}

	transport := opts.Transport
	if transport != nil {
		components["mail"] = "custom"
	} else {
		switch cfg.Mail.Backend {
		case config.MailSendgrid:
			transport = mail.NewSendgridTransport(cfg.Mail.SendgridKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
		default:
			transport = mail.NewConsoleTransport(log, cfg.Mail.FromEmail)
		}
	}
	mailer, err := mail.NewMailer(cfg.Mail.Site, transport)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Bus = events.NewBus(log, cfg.Notifications.Async)
	if cfg.Notifications.Async {
		components["notifications"] = "async"
	}
	a.Announcements = observed.NewAnnouncementStore(a.Repos.Announcements, a.Bus)
	notification.NewAnnouncementNotifier(log, a.Repos.Enrollments, a.Repos.Courses, mailer).Subscribe(a.Bus)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	a.Services = service.Collection{
		AuthService: auth.NewAuthService(log, jwtManager, a.Repos.Users, a.Repos.Tokens),
		CatalogService: catalog.NewCatalogService(log, catalog.Deps{
			Courses:   a.Repos.Courses,
			Lessons:   a.Repos.Lessons,
			Materials: a.Repos.Materials,
			Search:    index,
			Images:    images,
			Resources: resources,
			Mailer:    mailer,
		}, cfg.Mail.ContactEmail, opts.Now),
		ManagementService: management.NewManagementService(log, management.Deps{
			Courses:   a.Repos.Courses,
			Lessons:   a.Repos.Lessons,
			Materials: a.Repos.Materials,
			Index:     index,
			Images:    images,
			Resources: resources,
		}),
		EnrollmentService: enrollment.NewEnrollmentService(log, a.Repos.Enrollments, a.Repos.Courses, images,
			enrollment.PolicyFor(cfg.Enrollment.AutoApproveEnabled())),
		BoardService: board.NewBoardService(log, a.Announcements, a.Repos.Comments, a.Repos.Courses),
		Gate:         access.NewGate(a.Repos.Courses, a.Repos.Enrollments, respond.DashboardPath),
	}

	a.Router = http.InitRoutes(log, a.Services, http.Options{
		AllowOrigins: cfg.HTTPServer.AllowOrigins,
		Limiter:      limiter,
		Limits: http.Limits{
			Window:  cfg.Redis.Window,
			Login:   cfg.Redis.Login,
			Contact: cfg.Redis.Contact,
			Enroll:  cfg.Redis.Enroll,
		},
		Components: components,
	})
	return a, nil
}

// Close waits for in-flight notifications before releasing connections.
func (a *App) Close() {
	if a.Bus != nil {
		a.Bus.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func reindex(ctx context.Context, log logger.Log, courses storage.CourseRepository, index storage.CourseIndex) {
	list, err := courses.ListCourses(ctx)
	if err != nil {
		log.ErrorErr("failed to list courses for indexing", err)
		return
	}
	for _, c := range list {
		if err := index.Index(ctx, c); err != nil {
			log.ErrorErr("failed to index course", err, "course_id", c.ID)
		}
	}
	log.Info("search index refreshed", "courses", len(list))
}

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	a, err := New(context.Background(), cfg, log, Options{})
	if err != nil {
		log.FatalErr("failed to start", err)
	}
	defer a.Close()

	srv := server.New(a.Router, server.Options{
		Address:         cfg.HTTPServer.Address,
		Timeout:         cfg.HTTPServer.Timeout,
		IdleTimeout:     cfg.HTTPServer.IdleTimeout,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
	})
	srv.Start()
	log.Info("listening", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server stopped", err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		log.ErrorErr("shutdown", err)
	}
}
