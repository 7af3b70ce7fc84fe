// Package mcp exposes the turn pipeline as a Model Context Protocol server,
// so MCP-capable assistants can drive the nutrition flows as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mealgraph/mealgraph/pkg/pipeline"
	"github.com/mealgraph/mealgraph/pkg/ports"
)

// Turner processes one turn; implemented by pipeline.Pipeline.
type Turner interface {
	Turn(ctx context.Context, req pipeline.TurnRequest) (pipeline.TurnResponse, error)
}

// Server wraps the pipeline and exposes it as an MCP Server.
type Server struct {
	turner    Turner
	foods     ports.FoodSource
	meals     ports.MealStore
	goals     ports.GoalSource
	mcpServer *server.MCPServer
}

// NewServer creates an MCP Server instance.
func NewServer(turner Turner, foods ports.FoodSource, meals ports.MealStore, goals ports.GoalSource, version string) *Server {
	s := &Server{
		turner:    turner,
		foods:     foods,
		meals:     meals,
		goals:     goals,
		mcpServer: server.NewMCPServer("mealgraph-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: turn
	turnTool := mcp.NewTool("turn",
		mcp.WithDescription("Process one free-text nutrition message for a user: search foods, scan a barcode, log a meal, get a daily summary or recommendations."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric user id")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithOutputSchema[pipeline.TurnResponse](),
	)
	s.mcpServer.AddTool(turnTool, mcp.NewStructuredToolHandler(s.handleTurn))

	// TOOL: search_food
	s.mcpServer.AddTool(mcp.NewTool("search_food",
		mcp.WithDescription("Search the food catalog by name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Food name to search for")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := request.GetString("query", "")
		foods, err := s.foods.SearchByName(ctx, query, 5)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(foods)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: lookup_upc
	s.mcpServer.AddTool(mcp.NewTool("lookup_upc",
		mcp.WithDescription("Look up foods registered under a UPC barcode."),
		mcp.WithString("upc", mcp.Required(), mcp.Description("12-digit UPC code")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code := request.GetString("upc", "")
		foods, err := s.foods.LookupByUPC(ctx, code)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(foods)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: log_meal
	logTool := mcp.NewTool("log_meal",
		mcp.WithDescription("Record a meal for a user: a food, an amount in grams and an optional meal type."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric user id")),
		mcp.WithNumber("food_id", mcp.Required(), mcp.Description("Catalog id of the food")),
		mcp.WithNumber("grams", mcp.Required(), mcp.Description("Amount in grams")),
		mcp.WithString("meal_type", mcp.Description("breakfast, lunch, dinner or snack (default snack)")),
		mcp.WithString("notes", mcp.Description("Free-text notes")),
	)
	s.mcpServer.AddTool(logTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		userID, _ := args["user_id"].(float64)
		foodID, _ := args["food_id"].(float64)
		grams, _ := args["grams"].(float64)
		mealType := request.GetString("meal_type", "snack")
		notes := request.GetString("notes", "")

		if userID <= 0 || foodID <= 0 || grams <= 0 {
			return mcp.NewToolResultError("user_id, food_id and a positive grams amount are required"), nil
		}

		rec, err := s.meals.CreateMealLog(ctx, int64(userID), int64(foodID), grams, mealType, notes)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("log failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(rec)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: compute_day
	s.mcpServer.AddTool(mcp.NewTool("compute_day",
		mcp.WithDescription("Aggregate a user's logged meals for one calendar date."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric user id")),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default today)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		userID, _ := args["user_id"].(float64)
		if userID <= 0 {
			return mcp.NewToolResultError("user_id is required"), nil
		}

		date := time.Now()
		if raw := request.GetString("date", ""); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw)), nil
			}
			date = parsed
		}

		day, err := s.meals.ComputeDay(ctx, int64(userID), date)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compute failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(day)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_goals
	s.mcpServer.AddTool(mcp.NewTool("get_goals",
		mcp.WithDescription("Fetch a user's nutrient goals, keyed by nutrient name."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric user id")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		userID, _ := args["user_id"].(float64)
		if userID <= 0 {
			return mcp.NewToolResultError("user_id is required"), nil
		}
		goals, err := s.goals.GetGoals(ctx, int64(userID))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("goals lookup failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(goals)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleTurn(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (pipeline.TurnResponse, error) {
	userID, _ := args["user_id"].(float64)
	message, _ := args["message"].(string)
	if userID <= 0 || message == "" {
		return pipeline.TurnResponse{}, fmt.Errorf("user_id and message are required")
	}

	resp, err := s.turner.Turn(ctx, pipeline.TurnRequest{
		UserID:  int64(userID),
		Message: message,
	})
	if err != nil {
		return pipeline.TurnResponse{}, fmt.Errorf("turn failed: %w", err)
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: mealgraph://catalog
	s.mcpServer.AddResource(mcp.NewResource("mealgraph://catalog", "Food Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		foods, err := s.foods.Catalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		jsonBytes, _ := json.Marshal(foods)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "mealgraph://catalog",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
