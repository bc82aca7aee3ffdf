package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/BerniceZTT/jira_dashboard/config"
	"github.com/BerniceZTT/jira_dashboard/controllers"
	"github.com/BerniceZTT/jira_dashboard/jira"
	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/repository"
	"github.com/BerniceZTT/jira_dashboard/routes"
	"github.com/BerniceZTT/jira_dashboard/service"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

var (
	// snapshot / export 的筛选参数
	filter models.MetricsFilter
	// export 输出文件
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "jira-dashboard",
	Short: "JIRA executive dashboard service",
	Long: `Pulls orders and web-project epics from JIRA, normalizes them and serves
the dashboard data, derived metrics and table views over HTTP.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger()
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Print JIRA field metadata (useful for building the field mapping)",
	RunE:  runFields,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Sync once and print dashboard data and metrics as JSON",
	RunE:  runSnapshot,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Sync once and write the dashboard workbook (xlsx)",
	RunE:  runExport,
}

func init() {
	for _, cmd := range []*cobra.Command{snapshotCmd, exportCmd} {
		cmd.Flags().StringVar(&filter.Customer, "customer", "", "filter by customer")
		cmd.Flags().StringVar(&filter.Agent, "agent", "", "filter by agent")
		cmd.Flags().StringVar(&filter.AccountManager, "account-manager", "", "filter by account manager")
	}
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "jira-dashboard.xlsx", "output file")

	rootCmd.AddCommand(serveCmd, fieldsCmd, snapshotCmd, exportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app 组装好的依赖
type app struct {
	cfg      *config.Config
	mappings *service.FieldMappingStore
	service  *service.DashboardService
	state    *service.DashboardState
}

// bootstrap 加载配置、字段映射，按需连接MongoDB
func bootstrap(withMongo bool) (*app, error) {
	cfg := config.LoadConfig()

	base, err := config.LoadFieldMapping(cfg.FieldMappingFile)
	if err != nil {
		return nil, err
	}

	if withMongo && cfg.MongoURI != "" {
		if err := repository.InitMongoDB(cfg.MongoURI, cfg.MongoDB); err != nil {
			// MongoDB只承载覆盖配置和操作日志，连接失败不影响看板
			utils.Logger.Error().Err(err).Msg("连接MongoDB失败，字段映射覆盖与操作日志不可用")
		} else if err := repository.InitializeCollections(); err != nil {
			utils.Logger.Error().Err(err).Msg("初始化数据库集合失败")
		}
	}

	client := jira.NewClient(cfg.JiraDomain, cfg.JiraEmail, cfg.JiraAPIToken, cfg.JiraTimeout)
	mappings := service.NewFieldMappingStore(base)
	svc := service.NewDashboardService(client, mappings, cfg)

	return &app{
		cfg:      cfg,
		mappings: mappings,
		service:  svc,
		state:    service.NewDashboardState(svc),
	}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer repository.CloseMongoDB()

	// 设置Gin模式
	if a.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctl := controllers.NewController(a.service, a.state, a.mappings)
	router := routes.NewRouter(a.cfg, ctl)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", a.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务器失败: %w", err)
	case <-quit:
	}
	utils.Logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器关闭异常: %w", err)
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
	return nil
}

func runFields(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	fields, err := a.service.FetchFields(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, fields)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer repository.CloseMongoDB()

	data, err := a.state.Sync(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]interface{}{
		"data":    data,
		"metrics": service.ComputeMetrics(data.Orders, data.WebProjects, filter),
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer repository.CloseMongoDB()

	data, err := a.state.Sync(cmd.Context())
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	orders := service.FilterOrders(data.Orders, filter)
	metrics := service.ComputeMetrics(data.Orders, data.WebProjects, filter)
	if err := service.WriteWorkbook(f, service.DashboardSheets(orders, data.WebProjects, metrics)); err != nil {
		return err
	}

	utils.Logger.Info().Str("file", outputPath).Int("orders", len(orders)).Msg("导出完成")
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
