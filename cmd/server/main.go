package main

import (
	"fmt"
	"html/template"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/gookit/color"
	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/connection"
	"github.com/oarkflow/squealx/drivers/sqlite"
	"go.uber.org/zap"

	"github.com/bidboard/bidboard/pkg/config"
	"github.com/bidboard/bidboard/pkg/gate"
	"github.com/bidboard/bidboard/pkg/http/handlers"
	"github.com/bidboard/bidboard/pkg/http/middlewares"
	"github.com/bidboard/bidboard/pkg/http/routes"
	"github.com/bidboard/bidboard/pkg/mail"
	"github.com/bidboard/bidboard/pkg/objects"
	"github.com/bidboard/bidboard/pkg/pool"
	"github.com/bidboard/bidboard/pkg/render"
	"github.com/bidboard/bidboard/pkg/storage"
	"github.com/bidboard/bidboard/pkg/utils"
)

func main() {
	objects.Config = config.New(".env", true, nil)
	(&config.Board{}).Load(objects.Config)
	objects.Layout = utils.DefaultLayout

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := openDatabase()
	if err != nil {
		color.Red.Println("Database connection failed: " + err.Error())
		log.Fatal(err)
	}

	store, err := storage.New(db)
	if err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	engine := html.New("./views", ".html")
	// Post and comment bodies are sanitized on the way in; the stored markup
	// is the auto-linked output and renders verbatim.
	engine.AddFunc("raw", func(s string) template.HTML { return template.HTML(s) })
	objects.ViewEngine = engine
	renderer, err := render.New(engine, objects.Layout)
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      objects.Config.GetString("app.name", "Bidboard"),
		ViewsLayout:  objects.Layout,
		BodyLimit:    middlewares.MaxBodyBytes,
		ErrorHandler: routes.NewErrorHandler(renderer),
	})

	adm := &middlewares.Admission{
		Pool:            pool.New(db),
		Gate:            gate.New(objects.Config.GetDuration("board.admission_ttl", "2s")),
		Store:           store,
		Log:             logger,
		SiteName:        objects.Config.GetString("board.site_name", "bidboard"),
		SiteDescription: objects.Config.GetString("board.site_description"),
	}
	bl := &middlewares.Blocklist{Log: logger}
	h := handlers.New(renderer, newMailer(logger), logger)
	routes.Setup(app, adm, bl, h, logger)

	port := objects.Config.GetInt("app.port", 3000)
	color.Green.Printf("%s listening on :%d\n", objects.Config.GetString("board.site_name"), port)
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatal(err)
	}
}

func newLogger() (*zap.Logger, error) {
	if objects.Config.GetString("app.env", "development") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func openDatabase() (*squealx.DB, error) {
	driver := objects.Config.GetString("db.driver", "sqlite")
	if driver == "sqlite" {
		return sqlite.Open(objects.Config.GetString("db.file", "bidboard.db"), "bidboard")
	}
	dbConfig := squealx.Config{
		Driver:   driver,
		Host:     objects.Config.GetString("db.host", "localhost"),
		Port:     objects.Config.GetInt("db.port", 5432),
		Username: objects.Config.GetString("db.user"),
		Password: objects.Config.GetString("db.password"),
		Database: objects.Config.GetString("db.name", "bidboard"),
	}
	db, _, err := connection.FromConfig(dbConfig)
	return db, err
}

func newMailer(logger *zap.Logger) mail.Mailer {
	host := objects.Config.GetString("smtp.host")
	if host == "" {
		return &mail.LogMailer{Log: logger}
	}
	return &mail.SMTPMailer{
		Host:     host,
		Port:     objects.Config.GetInt("smtp.port", 587),
		Username: objects.Config.GetString("smtp.user"),
		Password: objects.Config.GetString("smtp.password"),
	}
}
