package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/olfat123/profile-creator/config"
	"github.com/olfat123/profile-creator/internal/api/middleware"
	"github.com/olfat123/profile-creator/internal/cache"
	"github.com/olfat123/profile-creator/internal/models"
	mongorepo "github.com/olfat123/profile-creator/internal/repositories/mongo"
	pgrepo "github.com/olfat123/profile-creator/internal/repositories/postgres"
	"github.com/olfat123/profile-creator/internal/services"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the relational schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.InitDatabase(settings, log); err != nil {
			return err
		}
		if err := pgrepo.Migrate(config.DB); err != nil {
			return err
		}
		log.Info("schema up to date")
		return nil
	},
}

var seedTaxonomyCmd = &cobra.Command{
	Use:   "seed-taxonomy [reference.yaml]",
	Short: "Replace the services and sectors taxonomy from a reference file",
	Long: `Loads the taxonomy section of the reference file (REFERENCE_FILE when no
argument is given) into mongo and drops the cached tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := settings.ReferenceFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no reference file given and REFERENCE_FILE is not set")
		}
		ref, err := config.LoadReferenceFile(path)
		if err != nil {
			return err
		}

		if err := config.InitMongo(settings.MongoURI, settings.MongoForceTLS12, settings.MongoInsecureTLS); err != nil {
			return err
		}
		defer config.MongoClient.Disconnect(cmd.Context())
		if err := config.EnsureMongoIndexes(settings.MongoDB); err != nil {
			return err
		}

		var c cache.Cache
		if settings.RedisAddr != "" {
			if err := config.InitRedis(settings.RedisAddr); err != nil {
				return err
			}
			defer config.RedisClient.Close()
			c = cache.NewRedisCache(config.RedisClient)
		}

		repo := mongorepo.NewTaxonomyRepo(config.MongoClient.Database(settings.MongoDB))
		svc := services.NewTaxonomyService(repo, c, ref.ReferenceLists, log)
		if err := svc.Seed(cmd.Context(), ref.Taxonomy.Services, ref.Taxonomy.Sectors); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"services": len(ref.Taxonomy.Services),
			"sectors":  len(ref.Taxonomy.Sectors),
		}).Info("taxonomy seeded")
		return nil
	},
}

var (
	adminTokenRole string
	adminTokenTTL  time.Duration
)

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token [subject]",
	Short: "Print a bearer token for the operator endpoints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := middleware.IssueAdminToken(middleware.JWTConfig{
			Secret:   settings.AdminJWTSecret,
			Issuer:   settings.AdminJWTIssuer,
			Audience: settings.AdminJWTAudience,
		}, args[0], adminTokenRole, adminTokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	adminTokenCmd.Flags().StringVar(&adminTokenRole, "role", string(models.RoleAdmin), "role claim")
	adminTokenCmd.Flags().DurationVar(&adminTokenTTL, "ttl", 12*time.Hour, "token lifetime")
}
