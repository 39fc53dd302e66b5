// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	contractorstore "github.com/dalemusser/fixit/internal/app/store/contractors"
	providerstore "github.com/dalemusser/fixit/internal/app/store/providers"
	userstore "github.com/dalemusser/fixit/internal/app/store/users"
	"github.com/dalemusser/fixit/internal/app/system/identity"
	"github.com/dalemusser/fixit/internal/app/system/mailer"
	"github.com/dalemusser/fixit/internal/app/system/push"
	"github.com/dalemusser/fixit/internal/app/system/workers"
	"github.com/dalemusser/fixit/internal/app/triggers/contractorapproval"
	"github.com/dalemusser/fixit/internal/app/triggers/providerprovision"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// runningWorkers holds the change-stream watchers between Startup and
// Shutdown. WAFFLE passes DBDeps by value through the lifecycle hooks, so
// anything that must survive from Startup to Shutdown lives here.
var runningWorkers struct {
	contractorWatch *workers.ContractorWatch
	providerWatch   *workers.ProviderWatch
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. FixIt
// uses it to build the trigger handlers and start the change-stream
// watchers that react to contractor approvals and provider creation.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.FixItMongoDatabase

	mail := mailer.NewSMTPSender(
		appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName,
		logger,
	)
	pushSender := push.NewFCMSender(appCfg.FCMEndpoint, appCfg.FCMServerKey, logger)

	users := userstore.New(db)
	contractors := contractorstore.New(db)
	providers := providerstore.New(db)

	approval := contractorapproval.NewHandler(users, mail, pushSender, logger)
	provision := providerprovision.NewHandler(providers, identity.New(db), mail, logger)

	runningWorkers.contractorWatch = workers.NewContractorWatch(contractors, approval, logger)
	runningWorkers.providerWatch = workers.NewProviderWatch(providers, provision, logger)

	runningWorkers.contractorWatch.Start()
	runningWorkers.providerWatch.Start()

	return nil
}
