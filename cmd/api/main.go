package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"deal_evaluation/pkg/api/calculator"
	"deal_evaluation/pkg/api/collab"
	"deal_evaluation/pkg/api/config"
	"deal_evaluation/pkg/api/dashboard"
	"deal_evaluation/pkg/api/deals"
	"deal_evaluation/pkg/api/documents"
	apimarket "deal_evaluation/pkg/api/market"
	"deal_evaluation/pkg/core/agent"
	"deal_evaluation/pkg/core/document"
	"deal_evaluation/pkg/core/logger"
	"deal_evaluation/pkg/core/market"
	"deal_evaluation/pkg/core/prompt"
	"deal_evaluation/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer log.Sync()

	ctx := context.Background()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		log.Warn("failed to load prompt library, using built-in prompts", zap.Error(err))
	} else {
		log.Info("prompt library loaded",
			zap.Int("prompts", prompt.Get().Count()), zap.String("path", resourcesPath))
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	// Postgres is optional in local runs; the analysis cache falls back
	// to the file system when the pool is missing.
	if err := store.InitDB(ctx); err != nil {
		log.Warn("database unavailable, running with file cache only", zap.Error(err))
	}
	pool := store.GetPool()
	defer store.Close()

	dealRepo := store.NewDealRepo(pool)
	rentRollRepo := store.NewRentRollRepo(pool)
	expenseRepo := store.NewExpenseRepo(pool)
	documentRepo := store.NewDocumentRepo(pool)
	collabRepo := store.NewCollabRepo(pool)
	analysisCache := store.NewAnalysisCache(pool, "")

	// Redis market cache is optional too.
	var marketCache *store.MarketCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		marketCache = store.NewMarketCache(addr)
		if err := marketCache.Ping(ctx); err != nil {
			log.Warn("redis unavailable, market snapshots uncached", zap.Error(err))
			marketCache = nil
		} else {
			defer marketCache.Close()
		}
	}

	// Config endpoints
	configHandler := config.NewHandler(agentMgr, log)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Calculator endpoints
	calcHandler := calculator.NewHandler(log)
	http.HandleFunc("/api/calculator/scenarios", calcHandler.HandleScenarios)
	http.HandleFunc("/api/calculator/amortization", calcHandler.HandleAmortization)

	// Deal pipeline endpoints
	dealsHandler := deals.NewHandler(dealRepo, rentRollRepo, expenseRepo, analysisCache, log)
	http.HandleFunc("/api/deals", dealsHandler.HandleDeals)
	http.HandleFunc("/api/deals/update", dealsHandler.HandleUpdate)
	http.HandleFunc("/api/deals/status", dealsHandler.HandleStatus)
	http.HandleFunc("/api/deals/analyze", dealsHandler.HandleAnalyze)
	http.HandleFunc("/api/deals/rentroll", dealsHandler.HandleRentRoll)
	http.HandleFunc("/api/deals/expenses", dealsHandler.HandleExpenses)

	// Dashboard endpoint
	dashboardHandler := dashboard.NewHandler(dealRepo, analysisCache, log)
	http.HandleFunc("/api/dashboard", dashboardHandler.HandleDashboard)

	// Market intelligence endpoints
	insightsAgent := market.NewInsightsAgent(agentMgr)
	marketHandler := apimarket.NewHandler(market.NewCompsParser(), marketCache, insightsAgent, log)
	http.HandleFunc("/api/market/snapshot", marketHandler.HandleSnapshot)
	http.HandleFunc("/api/market/trends", marketHandler.HandleTrends)
	http.HandleFunc("/api/market/insights", marketHandler.HandleInsights)

	// Document center endpoints
	gen, err := document.NewGeminiGenerator(ctx)
	if err != nil {
		log.Warn("gemini generator unavailable, document review disabled", zap.Error(err))
	}
	var reviewer *document.Reviewer
	if gen != nil {
		reviewer = document.NewReviewer(gen)
	}
	documentsHandler := documents.NewHandler(documentRepo, reviewer, log)
	http.HandleFunc("/api/documents", documentsHandler.HandleDocuments)
	http.HandleFunc("/api/documents/review", documentsHandler.HandleReview)
	http.HandleFunc("/api/documents/report", documentsHandler.HandleReport)

	// Collaboration endpoints
	collabHandler := collab.NewHandler(collabRepo, log)
	http.HandleFunc("/api/collab/invite", collabHandler.HandleInvite)
	http.HandleFunc("/api/collab/messages", collabHandler.HandleMessages)
	http.HandleFunc("/api/collab/deals", collabHandler.HandleSharedDeals)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Info("API server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal("server failed to start", zap.Error(err))
	}
}
