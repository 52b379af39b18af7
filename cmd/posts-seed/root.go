// root.go — команды seed-инструмента (cobra) и их параметры (viper).
// Параметры хранилища и AWS берутся из тех же PM_* переменных, что и у API;
// флаги seed-инструмента можно задать через PM_SEED_* (например PM_SEED_RATE).
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bigkaa/postgram/internal/awsclient"
	"github.com/bigkaa/postgram/internal/bootstrap"
	"github.com/bigkaa/postgram/internal/config"
	"github.com/bigkaa/postgram/internal/objectstore"
	"github.com/bigkaa/postgram/internal/seed"
	"github.com/bigkaa/postgram/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "posts-seed",
	Short: "Начальное наполнение хранилища постов",
	Long: `posts-seed загружает изображения из локального каталога в bucket
и записывает посты из YAML-файла в хранилище постов.

Каталог изображений повторяет пути объектов: <user>/<id>/<файл>.
Без --images-dir изображения считаются уже загруженными.`,
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Импорт постов из YAML-файла",
	RunE:  runImport,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Проверка YAML-файла без записи",
	RunE: func(cmd *cobra.Command, _ []string) error {
		items, err := seed.Load(viper.GetString("data"))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Записей: %d, файл корректен\n", len(items))
		return nil
	},
}

// Execute выполняет корневую команду.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("data", "deploy/seed/posts.yaml", "YAML-файл с постами")
	importCmd.Flags().String("images-dir", "", "Каталог изображений (<user>/<id>/<файл>)")
	importCmd.Flags().Float64("rate", 25, "Записей в секунду (0 — без ограничения)")
	importCmd.Flags().Int("concurrency", 4, "Параллельно обрабатываемых записей")

	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("images-dir", importCmd.Flags().Lookup("images-dir"))
	_ = viper.BindPFlag("rate", importCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("concurrency", importCmd.Flags().Lookup("concurrency"))

	viper.SetEnvPrefix("PM_SEED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(importCmd, validateCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	items, err := seed.Load(viper.GetString("data"))
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsclient.LoadConfig(ctx, cfg)
	if err != nil {
		return err
	}
	clients := awsclient.New(awsCfg, cfg)

	store, err := bootstrap.OpenPostStore(ctx, cfg, clients.DynamoDB, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	objects := objectstore.New(clients.S3, cfg.Bucket)
	posts := service.NewPostService(store.Repo, objects, logger)

	importer := seed.NewImporter(posts, objects, seed.Options{
		ImagesDir:   viper.GetString("images-dir"),
		Rate:        viper.GetFloat64("rate"),
		Concurrency: viper.GetInt("concurrency"),
	}, logger)

	logger.Info("Импорт seed-данных",
		slog.String("data", viper.GetString("data")),
		slog.Int("items", len(items)),
		slog.String("store_backend", cfg.StoreBackend),
	)

	report, err := importer.Run(ctx, items)
	printReport(cmd, report)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("не импортировано записей: %d из %d", report.Failed, report.Total)
	}
	return nil
}

func printReport(cmd *cobra.Command, report seed.Report) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}
