package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/rankingdocopo/core/internal/config"
	http_checkin "github.com/rankingdocopo/core/internal/delivery/http/checkin"
	http_coinflip "github.com/rankingdocopo/core/internal/delivery/http/coinflip"
	http_init "github.com/rankingdocopo/core/internal/delivery/http/init"
	http_auth_middleware "github.com/rankingdocopo/core/internal/delivery/http/middleware/auth"
	http_rewards "github.com/rankingdocopo/core/internal/delivery/http/rewards"
	http_waitlist "github.com/rankingdocopo/core/internal/delivery/http/waitlist"
	ws_lobby "github.com/rankingdocopo/core/internal/delivery/ws/lobby"
	infra_pg_init "github.com/rankingdocopo/core/internal/infra/postgres/init"
	infra_postgres_ledger "github.com/rankingdocopo/core/internal/infra/postgres/ledger"
	infra_postgres_room "github.com/rankingdocopo/core/internal/infra/postgres/room"
	infra_postgres_waitlist "github.com/rankingdocopo/core/internal/infra/postgres/waitlist"
	infra_redis_init "github.com/rankingdocopo/core/internal/infra/redis/init"
	infra_play_counter "github.com/rankingdocopo/core/internal/infra/redis/playcount"
	infra_session_cache "github.com/rankingdocopo/core/internal/infra/redis/session"
	infra_balance_snapshot "github.com/rankingdocopo/core/internal/infra/redis/snapshot"
	service_checkin "github.com/rankingdocopo/core/internal/service/checkin"
	service_flip "github.com/rankingdocopo/core/internal/service/flip"
	usecase_coinflip "github.com/rankingdocopo/core/internal/usecase/coinflip"
	usecase_points "github.com/rankingdocopo/core/internal/usecase/points"
	usecase_reconcile "github.com/rankingdocopo/core/internal/usecase/reconcile"
	usecase_waitlist "github.com/rankingdocopo/core/internal/usecase/waitlist"
)

func Go(cfg *config.Config) {
	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

	ledger := infra_postgres_ledger.New(pgConn)
	roomRepository := infra_postgres_room.New(pgConn, ledger)
	waitlistRepository := infra_postgres_waitlist.New(pgConn)

	sessionCache := infra_session_cache.New(redisConn, "checkin_session")
	snapshots := infra_balance_snapshot.New(redisConn, "balance_snapshot", cfg.Game.SnapshotTTL)
	playCounter := infra_play_counter.New(redisConn, "daily_plays")

	checkinService := service_checkin.New(sessionCache, cfg.Game.PublicBaseURL, cfg.Game.CheckinTTL)
	flipper := service_flip.New()

	hub := ws_lobby.NewHub()
	go hub.Run()

	coinflipUC := usecase_coinflip.New(roomRepository, ledger, flipper, hub)
	reconcileUC := usecase_reconcile.New(snapshots, roomRepository)
	pointsUC := usecase_points.New(ledger, playCounter, cfg.Game.DailyPlayCap)
	waitlistUC := usecase_waitlist.New(waitlistRepository)

	authMiddleware := http_auth_middleware.New(checkinService)

	corsMiddleware := cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Game.PublicBaseURL, "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-user-token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	controllerPool := http_init.NewControllerPool(corsMiddleware)
	controllerPool.Add(http_coinflip.New(coinflipUC, reconcileUC, pointsUC, authMiddleware))
	controllerPool.Add(http_rewards.New(pointsUC, authMiddleware))
	controllerPool.Add(http_waitlist.New(waitlistUC))
	controllerPool.Add(http_checkin.New(checkinService))
	controllerPool.Add(ws_lobby.NewController(hub))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
