package mcp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/martinsuchenak/assetboard/internal/classify"
	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/martinsuchenak/assetboard/internal/overview"
	"github.com/martinsuchenak/assetboard/internal/storage"
	"github.com/paularlott/mcp"
)

const serverVersion = "1.0.0"

// Server wraps the MCP server with the overview service and asset storage
type Server struct {
	mcpServer   *mcp.Server
	overview    *overview.Service
	storage     storage.AssetStorage
	bearerToken string
}

// NewServer creates a new MCP server. store may be nil, in which case the
// asset repository tools are not registered.
func NewServer(svc *overview.Service, store storage.AssetStorage, bearerToken string) *Server {
	s := &Server{
		mcpServer:   mcp.NewServer("assetboard", serverVersion),
		overview:    svc,
		storage:     store,
		bearerToken: bearerToken,
	}
	s.registerTools()
	return s
}

// registerTools registers the overview and asset tools
func (s *Server) registerTools() {
	// Overview tools

	s.mcpServer.RegisterTool(
		mcp.NewTool("overview_get", "Get the asset overview: counts per asset type for the current realm and filter"),
		s.handleOverviewGet,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("overview_refresh", "Fetch the assets again and recompute the overview"),
		s.handleOverviewRefresh,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("overview_filter_get", "Get the filter deciding which assets are counted"),
		s.handleFilterGet,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("overview_set_include_types", "Replace the list of asset types to count. An empty list counts every type not otherwise hidden.",
			mcp.StringArray("types", "Asset type names, e.g. BatteryAsset"),
		),
		s.handleSetIncludeTypes,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("overview_add_exclude_types", "Add asset types to the exclude list. Excluded types are never counted.",
			mcp.StringArray("types", "Asset type names to exclude", mcp.Required()),
		),
		s.handleAddExcludeTypes,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("overview_set_realm", "Switch the realm the overview is computed for",
			mcp.String("realm", "Realm name", mcp.Required()),
		),
		s.handleSetRealm,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("asset_type_info", "Get the category, icon, color and display name of an asset type",
			mcp.String("type", "Asset type name", mcp.Required()),
		),
		s.handleAssetTypeInfo,
	)

	if s.storage == nil {
		return
	}

	// Asset repository tools

	s.mcpServer.RegisterTool(
		mcp.NewTool("asset_list", "List assets in the local repository, optionally filtered by realm or type",
			mcp.String("realm", "Filter by realm"),
			mcp.String("type", "Filter by asset type"),
		),
		s.handleAssetList,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("asset_save", "Create a new asset or update an existing one. If id is provided and exists, it updates; otherwise creates new.",
			mcp.String("id", "Asset ID (if updating existing asset)"),
			mcp.String("name", "Asset name", mcp.Required()),
			mcp.String("type", "Asset type name, e.g. PVAsset"),
			mcp.String("realm", "Realm (defaults to the current overview realm)"),
		),
		s.handleAssetSave,
	)

	s.mcpServer.RegisterTool(
		mcp.NewTool("asset_delete", "Delete an asset from the local repository",
			mcp.String("id", "Asset ID or name", mcp.Required()),
		),
		s.handleAssetDelete,
	)
}

// HandleRequest handles MCP HTTP requests with optional bearer token authentication
func (s *Server) HandleRequest(w http.ResponseWriter, r *http.Request) {
	log.Debug("MCP request received", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)

	if s.bearerToken != "" {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			log.Warn("MCP request missing Authorization header", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Missing Authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			log.Warn("MCP request invalid Authorization format", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Invalid Authorization format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.bearerToken)) != 1 {
			log.Warn("MCP request invalid token", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}
	}

	s.mcpServer.HandleRequest(w, r)
}

// Overview tool handlers

func (s *Server) handleOverviewGet(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	ov := s.overview.Overview(ctx)
	log.Debug("MCP overview get", "realm", ov.Realm, "total", ov.Total)
	return mcp.NewToolResponseText(formatOverview(ov)), nil
}

func (s *Server) handleOverviewRefresh(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	ov := s.overview.Refresh(ctx)
	log.Info("MCP overview refreshed", "realm", ov.Realm, "total", ov.Total, "fallback", ov.Fallback)
	return mcp.NewToolResponseText(formatOverview(ov)), nil
}

func (s *Server) handleFilterGet(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	return mcp.NewToolResponseText(formatFilter(s.overview.Filter())), nil
}

func (s *Server) handleSetIncludeTypes(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	types, _ := req.StringSlice("types")
	types = cleanTypes(types)

	log.Debug("MCP set include types", "types", types)
	cfg, ov := s.overview.SetIncludeTypes(ctx, types)

	return mcp.NewToolResponseText(formatFilter(cfg) + "\n" + formatOverview(ov)), nil
}

func (s *Server) handleAddExcludeTypes(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	types, err := req.StringSlice("types")
	if err != nil {
		return nil, mcp.NewToolErrorInvalidParams("types is required: " + err.Error())
	}
	types = cleanTypes(types)
	if len(types) == 0 {
		return nil, mcp.NewToolErrorInvalidParams("types must name at least one asset type")
	}

	log.Debug("MCP add exclude types", "types", types)
	cfg, ov := s.overview.AddExcludeTypes(ctx, types)

	return mcp.NewToolResponseText(formatFilter(cfg) + "\n" + formatOverview(ov)), nil
}

func (s *Server) handleSetRealm(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	realm, err := req.String("realm")
	if err != nil {
		return nil, mcp.NewToolErrorInvalidParams("realm is required: " + err.Error())
	}
	realm = strings.TrimSpace(realm)
	if realm == "" {
		return nil, mcp.NewToolErrorInvalidParams("realm must not be empty")
	}

	if !s.overview.SetRealm(ctx, realm) {
		return mcp.NewToolResponseText(fmt.Sprintf("Realm set to %s", realm)), nil
	}
	return mcp.NewToolResponseText(fmt.Sprintf("Realm switched to %s\n\n%s", realm, formatOverview(s.overview.Snapshot()))), nil
}

func (s *Server) handleAssetTypeInfo(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	assetType, err := req.String("type")
	if err != nil {
		return nil, mcp.NewToolErrorInvalidParams("type is required: " + err.Error())
	}
	return mcp.NewToolResponseText(formatTypeInfo(classify.Describe(strings.TrimSpace(assetType)))), nil
}

// Asset tool handlers

func (s *Server) handleAssetList(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	filter := &model.AssetFilter{
		Realm: req.StringOr("realm", ""),
		Type:  req.StringOr("type", ""),
	}

	log.Debug("MCP asset list request", "realm", filter.Realm, "type", filter.Type)
	assets, err := s.storage.ListAssets(filter)
	if err != nil {
		log.Error("MCP asset list failed", "error", err)
		return nil, mcp.NewToolErrorInternal("failed to list assets: " + err.Error())
	}

	if len(assets) == 0 {
		return mcp.NewToolResponseText("No assets found"), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Found %d assets:\n\n", len(assets))
	for _, a := range assets {
		result.WriteString(formatAsset(&a))
	}
	return mcp.NewToolResponseText(result.String()), nil
}

func (s *Server) handleAssetSave(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	name, err := req.String("name")
	if err != nil {
		log.Warn("MCP asset save - missing name", "error", err)
		return nil, mcp.NewToolErrorInvalidParams("name is required: " + err.Error())
	}

	id := req.StringOr("id", "")
	assetType := strings.TrimSpace(req.StringOr("type", ""))
	realm := strings.TrimSpace(req.StringOr("realm", ""))

	if id != "" {
		existing, err := s.storage.GetAsset(id)
		if err == nil {
			existing.Name = name
			if assetType != "" {
				existing.Type = assetType
			}
			if realm != "" {
				existing.Realm = realm
			}
			if err := s.storage.UpdateAsset(existing); err != nil {
				log.Error("MCP asset update failed", "error", err, "id", existing.ID)
				return nil, mcp.NewToolErrorInternal("failed to update asset: " + err.Error())
			}
			log.Info("MCP asset updated", "id", existing.ID, "name", existing.Name)
			return mcp.NewToolResponseText(fmt.Sprintf("Asset updated: %s (ID: %s)", existing.Name, existing.ID)), nil
		}
		if !errors.Is(err, storage.ErrAssetNotFound) {
			return nil, mcp.NewToolErrorInternal("failed to look up asset: " + err.Error())
		}
	}

	if assetType == "" {
		return nil, mcp.NewToolErrorInvalidParams("type is required for a new asset")
	}
	if realm == "" {
		realm = s.overview.Realm()
	}
	if id == "" {
		id = generateID()
	}

	asset := &model.Asset{ID: id, Name: name, Type: assetType, Realm: realm}
	if err := s.storage.CreateAsset(asset); err != nil {
		log.Error("MCP asset creation failed", "error", err, "name", name)
		return nil, mcp.NewToolErrorInternal("failed to create asset: " + err.Error())
	}

	log.Info("MCP asset created", "id", asset.ID, "name", asset.Name, "type", asset.Type)
	return mcp.NewToolResponseText(fmt.Sprintf("Asset created: %s (ID: %s)", asset.Name, asset.ID)), nil
}

func (s *Server) handleAssetDelete(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	id, err := req.String("id")
	if err != nil {
		return nil, mcp.NewToolErrorInvalidParams("id is required: " + err.Error())
	}

	// Accept names like the other tools
	if asset, err := s.storage.GetAsset(id); err == nil {
		id = asset.ID
	}

	if err := s.storage.DeleteAsset(id); err != nil {
		log.Error("MCP asset deletion failed", "error", err, "id", id)
		return nil, mcp.NewToolErrorInternal("failed to delete asset: " + err.Error())
	}

	log.Info("MCP asset deleted", "id", id)
	return mcp.NewToolResponseText("Asset deleted successfully"), nil
}

func (s *Server) GetHTTPHandler() http.HandlerFunc {
	return s.HandleRequest
}

// ToolNames lists the registered tools
func (s *Server) ToolNames() []string {
	tools := s.mcpServer.ListTools()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names
}

func (s *Server) LogStartup() {
	log.Info("MCP Server initialized", "version", serverVersion)
	if s.bearerToken != "" {
		log.Info("MCP authentication enabled", "type", "Bearer token")
	} else {
		log.Info("MCP authentication disabled")
	}
	tools := s.mcpServer.ListTools()
	log.Info("MCP tools registered", "count", len(tools))
	for _, tool := range tools {
		log.Debug("MCP tool registered", "name", tool.Name, "description", tool.Description)
	}
}

// generateID generates a UUIDv7 for an asset
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
