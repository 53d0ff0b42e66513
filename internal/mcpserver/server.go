// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes wort tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wort/internal/service"
)

const (
	recipeFormatURI = "wort://recipe-format"
	searchLimit     = 20
)

// Server wraps the MCP server with wort tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all wort tools registered.
func New(svc *service.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Wort",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("analyze_recipe",
		mcp.WithDescription("Compute original and final gravity, ABV, IBU, BU:GU and color (SRM/EBC) "+
			"for a recipe document. Read the format first via get_recipe_contract or the "+
			recipeFormatURI+" resource."),
		mcp.WithString("recipe", mcp.Required(), mcp.Description("Recipe document in YAML or JSON")),
		mcp.WithString("color_model", mcp.Description("SRM model (default morey)"),
			mcp.Enum("morey", "morey_hybrid", "mosher", "daniels", "daniels_power", "noonan_power")),
		mcp.WithNumber("target_ibu", mcp.Description("Optional target bitterness; adds a hop schedule")),
	), s.analyzeRecipe)

	s.mcp.AddTool(mcp.NewTool("search_ingredients",
		mcp.WithDescription("Search reference grains, hops and yeast by name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Part of an ingredient name")),
		mcp.WithString("category", mcp.Description("Restrict to one category"), mcp.Enum("grains", "hops", "yeast")),
	), s.searchIngredients)

	s.mcp.AddTool(mcp.NewTool("get_ingredient",
		mcp.WithDescription("Read the reference data of one ingredient."),
		mcp.WithString("category", mcp.Required(), mcp.Enum("grains", "hops", "yeast")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Ingredient name, e.g. Cascade US")),
	), s.getIngredient)

	s.mcp.AddTool(mcp.NewTool("convert_gravity",
		mcp.WithDescription("Convert a reading between specific gravity, Plato, Brix and gravity units."),
		mcp.WithNumber("value", mcp.Required()),
		mcp.WithString("from", mcp.Required(), mcp.Enum("sg", "plato", "brix", "gu")),
		mcp.WithString("to", mcp.Required(), mcp.Enum("sg", "plato", "brix", "gu")),
	), s.convertGravity)

	s.mcp.AddTool(mcp.NewTool("get_recipe_contract",
		mcp.WithDescription("Returns the recipe document format. "+
			"Call this before analyze_recipe to ensure correct structure."),
	), s.getRecipeContract)

	s.mcp.AddResource(
		mcp.NewResource(recipeFormatURI, "Recipe Format Contract",
			mcp.WithResourceDescription("Recipe document format accepted by analyze_recipe."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecipeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) analyzeRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipe, err := req.RequireString("recipe")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := service.AnalyzeOptions{ColorModel: req.GetString("color_model", "")}
	if target, tErr := req.RequireFloat("target_ibu"); tErr == nil {
		opts.TargetIBU = &target
	}
	a, err := s.svc.Analyze(ctx, []byte(recipe), opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(a)
}

func (s *Server) searchIngredients(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchIngredients(ctx, query, req.GetString("category", ""), searchLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no ingredients found"), nil
	}
	return jsonResult(results)
}

func (s *Server) getIngredient(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ing, err := s.svc.GetIngredient(ctx, category, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s %q: %v", category, name, err)), nil
	}
	return jsonResult(ing)
}

func (s *Server) convertGravity(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := req.RequireFloat("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := service.ConvertGravity(value, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%.4f %s = %.4f %s", value, from, result, to)), nil
}

func (s *Server) getRecipeContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecipeFormatContract), nil
}

func (s *Server) readRecipeFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      recipeFormatURI,
			MIMEType: "text/markdown",
			Text:     RecipeFormatContract,
		},
	}, nil
}
