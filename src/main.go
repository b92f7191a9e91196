package main

import (
	"context"
	"fmt"
	"time"

	appbuilder "docvault/pkg/app_builder"
	"docvault/pkg/logger"
	"docvault/pkg/rabbitmq"
	"docvault/pkg/rest"
	"docvault/src/access"
	"docvault/src/auth"
	"docvault/src/database"
	"docvault/src/docs"
	"docvault/src/document"
	"docvault/src/external"
	"docvault/src/identity"
	"docvault/src/middleware"
	"docvault/src/outbox"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const (
	serviceName  = "docvault-api"
	logPublisher = "LogPublisher"
)

// @title           DocVault API
// @version         1.0
// @description     Wallet-authenticated document custody with owner-approved sharing
// @host localhost:9000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	var db *gorm.DB

	appbuilder.New[ApiConfigJson, ApiConfig]().
		InitLogger(logger.GlobalLoggerConfig{
			Args: []logger.LoggerArg{{Key: "service", Value: serviceName}},
		}).
		LoadConfig("config.json").
		WithOption(func(a *appbuilder.AppBuilder[ApiConfigJson, ApiConfig]) {
			// ----- DATABASE + MIGRATIONS -----
			db = database.ConnectToDatabase(a)
		}).
		// ----- RABBITMQ -----
		InitRabbitmqConnection().
		InitRabbitmqRegistries().
		WithOption(func(a *appbuilder.AppBuilder[ApiConfigJson, ApiConfig]) {
			// ----- RABBITMQ LOGGING SINK -----
			if publisher := rabbitmq.GetPublisher(logPublisher); publisher != nil {
				logger.AddSinkToLoggerInstance(logger.Default(), rabbitmq.CreateRabbitmqLoggerSink(publisher, serviceName))
			}
		}).
		WithOption(func(a *appbuilder.AppBuilder[ApiConfigJson, ApiConfig]) {
			cfg := a.Config
			docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.GetRestApiPort())

			// ----- OUTBOX -----
			outboxRepo := outbox.NewRepo(db)
			events := outbox.NewEventRecorder(outboxRepo)
			if publisher := rabbitmq.GetPublisher(rabbitmq.PublisherAlias(cfg.OutboxConf.Publisher)); publisher != nil {
				a.AddWorkerServices(outbox.NewOutboxWorker(publisher, outboxRepo, cfg.OutboxConf))
			} else {
				a.Logger.Warnf("Publisher %s not configured, outbox worker disabled", cfg.OutboxConf.Publisher)
			}

			// ----- AUTH -----
			tokens, err := auth.NewTokenService(cfg.AuthConf)
			if err != nil {
				a.Logger.Fatal(err, "Cannot create token service")
			}
			revoked := revocationList(a.Logger, cfg.RedisConf)
			requireAuth := auth.RequireAuth(tokens, revoked, cfg.AuthConf.CookieName)

			// ----- STORAGE ADAPTERS -----
			objects, err := external.NewCloudinaryStore(cfg.CloudinaryConf)
			if err != nil {
				a.Logger.Fatal(err, "Cannot create Cloudinary store")
			}
			contents, err := external.NewPinataStore(cfg.IpfsConf)
			if err != nil {
				a.Logger.Fatal(err, "Cannot create IPFS store")
			}
			var documentOpts []document.Option
			if anchor := solanaAnchor(a.Logger, cfg.SolanaConf); anchor != nil {
				documentOpts = append(documentOpts, document.WithAnchor(anchor))
			}

			// ----- DOMAIN -----
			identityRepo := identity.NewRepository(db)
			identityHandler := identity.Build(db, auth.NewEthereumVerifier(), tokens, revoked, cfg.AuthConf, events)
			accessHandler := access.Build(db, identityRepo, document.NewRepository(db), identityHandler.Service, events)
			documentHandler := document.Build(db, identityRepo, objects, contents, accessHandler.Service, identityHandler.Service, events, documentOpts...)

			// ----- CORS + AUTH -----
			a.AddGinMiddleware(
				rest.NewMiddleware(rest.GlobalGroup, middleware.CORSMiddleware(cfg.CorsConf)),
				rest.NewMiddleware("documents", requireAuth),
				rest.NewMiddleware("access-requests", requireAuth),
			)

			// ----- ROUTES -----
			a.AddGinRoutes(
				rest.NewRoute(rest.POST, "auth", "register", identityHandler.Register),
				rest.NewRoute(rest.POST, "auth", "logout", identityHandler.Logout).With(requireAuth),
				rest.NewRoute(rest.POST, "auth", "complete-profile", identityHandler.CompleteProfile).With(requireAuth),
				rest.NewRoute(rest.GET, "auth", "profile", identityHandler.GetProfile).With(requireAuth),
				rest.NewRoute(rest.PUT, "auth", "profile", identityHandler.UpdateProfile).With(requireAuth),
				rest.NewRoute(rest.DELETE, "auth", "profile", identityHandler.DeleteProfile).With(requireAuth),

				rest.NewRoute(rest.POST, "documents", "upload", documentHandler.Upload),
				rest.NewRoute(rest.GET, "documents", "user-documents", documentHandler.UserDocuments),
				rest.NewRoute(rest.POST, "documents", "verify", documentHandler.Verify),
				rest.NewRoute(rest.GET, "documents", "approved", accessHandler.Approved),
				rest.NewRoute(rest.DELETE, "documents", ":id", documentHandler.Delete),
				rest.NewRoute(rest.GET, "documents", ":id/access", accessHandler.CheckAccess),
				rest.NewRoute(rest.GET, "documents", ":id/qrcode", documentHandler.QRCode),

				rest.NewRoute(rest.POST, "access-requests", "", accessHandler.RequestAccess),
				rest.NewRoute(rest.GET, "access-requests", "incoming", accessHandler.Incoming),
				rest.NewRoute(rest.GET, "access-requests", "outgoing", accessHandler.Outgoing),
				rest.NewRoute(rest.GET, "access-requests", "new", accessHandler.New),
				rest.NewRoute(rest.GET, "access-requests", "pending", accessHandler.Pending),
				rest.NewRoute(rest.POST, "access-requests", "mark-seen", accessHandler.MarkSeen),
				rest.NewRoute(rest.POST, "access-requests", ":id/approve", accessHandler.Approve),
				rest.NewRoute(rest.POST, "access-requests", ":id/reject", accessHandler.Reject),
			)
		}).
		AddSwagger().
		InitGinRouter().
		Build().
		Start()
}

func revocationList(log *logger.Logger, cfg auth.RedisConfig) auth.RevocationList {
	if cfg.Addr == "" {
		log.Warn("Redis not configured, revoked tokens are kept in memory")
		return auth.NewMemoryRevocationList()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := auth.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatal(err, "Cannot connect to Redis")
	}
	log.Infof("Token revocation list backed by Redis at %s", cfg.Addr)
	return auth.NewRedisRevocationList(client)
}

func solanaAnchor(log *logger.Logger, cfg external.SolanaConfig) document.HashAnchor {
	if !cfg.Enabled {
		log.Warn("Solana anchoring disabled, documents are stored without an on-chain hash")
		return nil
	}

	shared, err := external.LoadSolanaKeys(cfg)
	if err != nil {
		log.Fatal(err, "Cannot load Solana keys")
	}
	rpcClient := rpc.New(cfg.RpcEndpoint)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shared.ValidateProgramExecutable(ctx, rpcClient); err != nil {
		log.Fatal(err, "Solana anchor program is not deployed")
	}
	log.Infof("Anchoring document hashes with program %s", shared.Keys.ContractPublicKey)
	return external.NewSolanaAnchor(shared, rpcClient)
}
