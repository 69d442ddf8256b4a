package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/pauljbernard/content-sub002/pkg/access"
	"github.com/pauljbernard/content-sub002/pkg/audit"
	"github.com/pauljbernard/content-sub002/pkg/config"
	"github.com/pauljbernard/content-sub002/pkg/crypto"
	"github.com/pauljbernard/content-sub002/pkg/kb"
	"github.com/pauljbernard/content-sub002/pkg/schema"
	"github.com/pauljbernard/content-sub002/pkg/standards"
	"github.com/pauljbernard/content-sub002/pkg/store"
	gormstore "github.com/pauljbernard/content-sub002/pkg/store/gorm"
	"github.com/pauljbernard/content-sub002/pkg/token"
)

type Server struct {
	Router    *mux.Router
	DB        *gorm.DB
	Cipher    crypto.SymmetricCipher
	Types     store.TypesStore
	Instances store.InstancesStore
	Engine    *schema.Engine
	Access    *access.Service
	Recorder  *audit.Recorder
	Tokens    *token.Manager
	Library   *kb.Library
	Importer  *standards.Importer
	Config    *config.PlatformConfig

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cipher crypto.SymmetricCipher,
	tokenKey []byte,
	cfg *config.PlatformConfig,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.ListenAddr(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	types := gormstore.NewTypesStore(db)
	instances := gormstore.NewInstancesStore(db)
	engine := schema.NewEngine(cipher)
	engine.SetMaskWidth(cfg.SecretVisibleChars)

	return &Server{
		Router:    router,
		DB:        db,
		Cipher:    cipher,
		Types:     types,
		Instances: instances,
		Engine:    engine,
		Access:    access.NewService(instances, access.DefaultSystemTypes()),
		Recorder:  audit.NewRecorder(types, instances),
		Tokens:    token.NewManager(tokenKey, "curricula", cfg.AccessTTL(), cfg.RefreshTTL()),
		Library:   kb.NewLibrary(cfg.KBRoot),
		Importer:  standards.NewImporter(types, instances, engine),
		Config:    cfg,
		srv:       srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
