package server

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CollectivaT-dev/ladinobot/internal/model"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo 设置构建版本信息
func SetVersionInfo(v, commit, built string) {
	version = v
	gitCommit = commit
	buildTime = built
}

// handleHealth 健康检查
func (s *HTTPServer) handleHealth(c *gin.Context) {
	s.success(c, gin.H{
		"status": "healthy",
	})
}

// handleVersion 版本信息
func (s *HTTPServer) handleVersion(c *gin.Context) {
	s.success(c, gin.H{
		"version":    version,
		"git_commit": gitCommit,
		"build_time": buildTime,
	})
}

// ChatRequest 对话请求
type ChatRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// handleChat 通过 API 发起一次对话交换
func (s *HTTPServer) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "user_id and message are required")
		return
	}

	reply := s.pipeline.Exchange(c.Request.Context(), req.UserID, "api", req.Message)

	s.success(c, gin.H{
		"reply": reply,
	})
}

// handleListLogs 分页查询对话日志
func (s *HTTPServer) handleListLogs(c *gin.Context) {
	userID := c.Query("user_id")
	source := c.Query("source")
	chatType, _ := strconv.Atoi(c.DefaultQuery("chat_type", "0"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	logs, total, err := s.chatLogs.ListChatLogs(userID, source, chatType, pageSize, (page-1)*pageSize)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "Failed to list chat logs: "+err.Error())
		return
	}

	totalPage := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPage++
	}

	s.success(c, model.ListResponse{
		Items: logs,
		PageInfo: &model.PageInfo{
			PageNum:   page,
			PageSize:  pageSize,
			Total:     int(total),
			TotalPage: totalPage,
		},
	})
}

// handleStats 用量统计
func (s *HTTPServer) handleStats(c *gin.Context) {
	summary, err := s.chatLogs.GetUsageSummary()
	if err != nil {
		s.error(c, http.StatusInternalServerError, "Failed to get usage summary: "+err.Error())
		return
	}

	s.success(c, summary)
}

// knowledgeEntry 知识库资源条目
type knowledgeEntry struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// handleKnowledge 列出已加载的知识库资源
func (s *HTTPServer) handleKnowledge(c *gin.Context) {
	entries := make([]knowledgeEntry, 0, len(s.resources))
	for name, content := range s.resources {
		entries = append(entries, knowledgeEntry{Name: name, Size: len(content)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	s.success(c, gin.H{
		"total":     len(entries),
		"resources": entries,
	})
}
