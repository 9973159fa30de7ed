package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Leiritrix/api-vendas/internal/auth"
	"github.com/Leiritrix/api-vendas/internal/config"
	"github.com/Leiritrix/api-vendas/internal/logger"
	"github.com/Leiritrix/api-vendas/internal/notificacao"
	"github.com/Leiritrix/api-vendas/internal/operadora"
	"github.com/Leiritrix/api-vendas/internal/parceiro"
	"github.com/Leiritrix/api-vendas/internal/sessao"
	"github.com/Leiritrix/api-vendas/internal/utilizador"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/Leiritrix/api-vendas/internal/venda"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.NewLogger(cfg.Log.Nivel, cfg.Log.Formato, "api-vendas")
	if err != nil {
		log.Fatal("Erro ao criar logger:", err)
	}
	defer zlog.Sync()

	if cfg.JWTSecret == "" {
		zlog.Fatal("JWT_SECRET não definido")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := dbutil.ConnectDataBase(ctx, cfg.Database, zlog)
	cancel()
	if err != nil {
		zlog.Fatal("erro ao conectar no banco", zap.Error(err))
	}

	// AutoMigrate para todos os modelos
	if err := db.AutoMigrate(
		&parceiro.Parceiro{},
		&operadora.Operadora{},
		&utilizador.Utilizador{},
		&auth.Identidade{},
		&venda.Venda{},
		&notificacao.Notificacao{},
	); err != nil {
		zlog.Fatal("erro no AutoMigrate", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zlog.Fatal("erro ao conectar ao redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	// Notificações: base de dados e Redis sempre, webhook só se configurado
	notificadores := notificacao.Multi{
		notificacao.NewNotificadorDB(db),
		notificacao.NewPublicador(rdb, cfg.Redis.Canal),
	}
	if cfg.WebhookURL != "" {
		notificadores = append(notificadores, notificacao.NewWebhook(cfg.WebhookURL, cfg.WebhookTimeout, zlog.Named("webhook")))
	}

	// Handlers
	emissor := auth.NewEmissor(cfg.JWTSecret, cfg.JWTValidade)
	authHandler := auth.NewHandler(db, emissor, zlog.Named("auth"))
	parceiroHandler := parceiro.NewHandler(db, zlog.Named("parceiro"))
	operadoraHandler := operadora.NewHandler(db, zlog.Named("operadora"))
	utilizadorHandler := utilizador.NewHandler(
		utilizador.NewProvisionador(db, auth.NewIdentidades(db), zlog.Named("provisionamento")),
		zlog.Named("utilizador"),
	)
	vendaHandler := venda.NewHandler(db, notificadores, zlog.Named("venda"))
	gateway := venda.NewGateway(db, notificadores, zlog.Named("gateway"))
	intakeHandler := venda.NewIntakeHandler(
		venda.NewIntake(db, gateway, zlog.Named("intake")),
		sessao.NewStore(rdb, cfg.IntakeTTL),
		zlog.Named("intake"),
	)
	notificacaoHandler := notificacao.NewHandler(db, zlog.Named("notificacao"))

	// Router
	r := mux.NewRouter()
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(emissor.MiddlewareAutenticacao)
	soAdmin := func(f http.HandlerFunc) http.Handler { return auth.RequireAdmin(f) }

	api.HandleFunc("/auth/senha", authHandler.AlterarSenha).Methods("POST")

	// Rotas de parceiros
	api.HandleFunc("/parceiros", parceiroHandler.ListarParceiros).Methods("GET")
	api.HandleFunc("/parceiros/{id}", parceiroHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/parceiros/{id}/catalogo", operadoraHandler.Catalogo).Methods("GET")
	api.Handle("/parceiros", soAdmin(parceiroHandler.CriarParceiro)).Methods("POST")
	api.Handle("/parceiros/{id}", soAdmin(parceiroHandler.AtualizarParceiro)).Methods("PUT")
	api.Handle("/parceiros/{id}/ativo", soAdmin(parceiroHandler.DefinirAtivo)).Methods("PATCH")
	api.Handle("/parceiros/{id}", soAdmin(parceiroHandler.DeletarParceiro)).Methods("DELETE")

	// Rotas de operadoras
	api.HandleFunc("/operadoras", operadoraHandler.ListarOperadoras).Methods("GET")
	api.HandleFunc("/operadoras/{id}", operadoraHandler.BuscarPorID).Methods("GET")
	api.Handle("/operadoras", soAdmin(operadoraHandler.CriarOperadora)).Methods("POST")
	api.Handle("/operadoras/{id}", soAdmin(operadoraHandler.AtualizarOperadora)).Methods("PUT")
	api.Handle("/operadoras/{id}/ativa", soAdmin(operadoraHandler.DefinirAtiva)).Methods("PATCH")
	api.Handle("/operadoras/{id}", soAdmin(operadoraHandler.DeletarOperadora)).Methods("DELETE")

	// Rotas de utilizadores
	api.HandleFunc("/utilizadores", utilizadorHandler.ListarPorPapel).Methods("GET")
	api.Handle("/admin/utilizadores", soAdmin(utilizadorHandler.CriarUtilizador)).Methods("POST")
	api.Handle("/admin/utilizadores/{id}/senha", soAdmin(utilizadorHandler.RedefinirSenha)).Methods("POST")

	// Registo de venda (as rotas /vendas/intake vêm antes de /vendas/{id})
	intakeHandler.Registar(api)

	// Rotas de vendas
	api.HandleFunc("/vendas", vendaHandler.ListarVendas).Methods("GET")
	api.HandleFunc("/vendas/estatisticas", vendaHandler.Estatisticas).Methods("GET")
	api.HandleFunc("/vendas/exportar", vendaHandler.ExportarVendas).Methods("GET")
	api.HandleFunc("/vendas/{id}", vendaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/vendas/{id}", vendaHandler.AtualizarVenda).Methods("PUT")
	api.Handle("/vendas/{id}", soAdmin(vendaHandler.DeletarVenda)).Methods("DELETE")

	// Rotas de notificações
	api.HandleFunc("/notificacoes", notificacaoHandler.ListarMinhas).Methods("GET")
	api.HandleFunc("/notificacoes/{id}/lida", notificacaoHandler.MarcarLida).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigens,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Porta,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	zlog.Info("servidor a correr", zap.String("porta", cfg.Porta))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("servidor terminou", zap.Error(err))
	}
}
