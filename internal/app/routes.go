package app

import (
	"net/http"

	"github.com/cradoe/finlap/internal/handler"
	"github.com/cradoe/finlap/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.errorHandler, app.Logger, app.DB.User(), app.Sessions, app.Cache, &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.errorHandler)

	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		UserRepo:   app.DB.User(),
		TokenRepo:  app.DB.VerificationToken(),
		Sessions:   app.Sessions,
		Mailer:     app.Mailer,
		Helper:     app.Helper,
		Config:     &app.Config,
		ErrHandler: app.errorHandler,
	})

	emailVerificationHandler := handler.NewEmailVerificationHandler(&handler.EmailVerificationHandler{
		UserRepo:   app.DB.User(),
		TokenRepo:  app.DB.VerificationToken(),
		Mailer:     app.Mailer,
		Helper:     app.Helper,
		Config:     &app.Config,
		ErrHandler: app.errorHandler,
	})

	passwordHandler := handler.NewPasswordHandler(&handler.PasswordHandler{
		UserRepo:   app.DB.User(),
		TokenRepo:  app.DB.VerificationToken(),
		Mailer:     app.Mailer,
		Helper:     app.Helper,
		Config:     &app.Config,
		ErrHandler: app.errorHandler,
	})

	userHandler := handler.NewUserHandler(&handler.UserHandler{
		UserRepo:     app.DB.User(),
		TokenRepo:    app.DB.VerificationToken(),
		Mailer:       app.Mailer,
		Helper:       app.Helper,
		Config:       &app.Config,
		FileUploader: app.FileUploader,
		ErrHandler:   app.errorHandler,
	})

	identityHandler := handler.NewIdentityHandler(&handler.IdentityHandler{
		UserRepo:       app.DB.User(),
		PendingBvnRepo: app.DB.PendingBvnVerification(),
		Flutterwave:    app.Flutterwave,
		Config:         &app.Config,
		ErrHandler:     app.errorHandler,
	})

	webhookHandler := handler.NewWebhookHandler(&handler.WebhookHandler{
		UserRepo:       app.DB.User(),
		PendingBvnRepo: app.DB.PendingBvnVerification(),
		Flutterwave:    app.Flutterwave,
		Mailer:         app.Mailer,
		Helper:         app.Helper,
		Config:         &app.Config,
		ErrHandler:     app.errorHandler,
	})

	transferHandler := handler.NewTransferHandler(&handler.TransferHandler{
		UserRepo:        app.DB.User(),
		TransactionRepo: app.DB.Transaction(),
		Flutterwave:     app.Flutterwave,
		Stream:          app.Kafka,
		ErrHandler:      app.errorHandler,
	})

	mux.HandleFunc("GET /health", healthHandler.HandleHealthCheck)

	// The login and account-recovery endpoints are the ones worth
	// brute-forcing, so they sit behind the per-IP rate limit.
	mux.Handle("POST /api/auth/register", middlewareRepo.RateLimit(http.HandlerFunc(authHandler.HandleAuthRegister)))
	mux.Handle("POST /api/auth/login", middlewareRepo.RateLimit(http.HandlerFunc(authHandler.HandleAuthLogin)))
	mux.Handle("POST /api/auth/logout", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(authHandler.HandleAuthLogout)))

	mux.Handle("GET /api/auth/email/verify/{selector}/{token}", middlewareRepo.RateLimit(http.HandlerFunc(emailVerificationHandler.HandleVerifyEmail)))
	mux.Handle("POST /api/auth/email/verify/resend", middlewareRepo.RateLimit(http.HandlerFunc(emailVerificationHandler.HandleResendVerifyEmail)))

	mux.Handle("POST /api/auth/password/reset", middlewareRepo.RateLimit(http.HandlerFunc(passwordHandler.HandlePasswordResetRequest)))
	mux.Handle("POST /api/auth/password/reset/{selector}/{token}", middlewareRepo.RateLimit(http.HandlerFunc(passwordHandler.HandlePasswordReset)))
	mux.Handle("POST /api/auth/password/update", middlewareRepo.RequireAuthenticatedUser(middlewareRepo.RateLimit(http.HandlerFunc(passwordHandler.HandlePasswordUpdate))))

	mux.Handle("GET /api/user/profile", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(userHandler.HandleGetProfile)))
	mux.Handle("PUT /api/user/profile", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(userHandler.HandleUpdateProfile)))
	mux.Handle("PUT /api/user/profile/photo", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(userHandler.HandleUpdateProfilePhoto)))

	mux.Handle("POST /api/user/verify-account", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(identityHandler.HandleVerifyAccount)))
	mux.HandleFunc("POST /api/webhooks/flutterwave", webhookHandler.HandleFlutterwaveWebhook)

	mux.Handle("POST /api/wallet/transfer", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(transferHandler.HandleTransferMoney)))
	mux.Handle("GET /api/wallet/transfer/banks", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(transferHandler.HandleListBanks)))
	mux.Handle("POST /api/wallet/transfer/resolve-account", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(transferHandler.HandleResolveAccount)))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
