// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 项目管理
	projects := v1.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:pid", h.Project.GetProject)
		projects.PUT("/:pid", h.Project.UpdateProject)
		projects.DELETE("/:pid", h.Project.DeleteProject)

		// 风格画像
		projects.GET("/:pid/style", h.Style.GetProfile)
		projects.POST("/:pid/style", h.Style.SubmitSample)
		projects.DELETE("/:pid/style", h.Style.DeleteProfile)

		// 大纲
		projects.GET("/:pid/outline", h.Outline.GetOutline)
		projects.PUT("/:pid/outline", h.Outline.ReplaceOutline)
		projects.POST("/:pid/outline/generate", h.Outline.GenerateOutline)

		// 章节
		projects.GET("/:pid/chapters", h.Chapter.ListChapters)
		projects.GET("/:pid/chapters/:index", h.Chapter.GetChapter)
		projects.PUT("/:pid/chapters/:index", h.Chapter.SaveChapter)
		projects.POST("/:pid/chapters/:index/generate", h.Chapter.GenerateChapter)

		// 营销素材
		projects.GET("/:pid/marketing", h.Marketing.GetBundle)
		projects.GET("/:pid/marketing/export", h.Marketing.ExportBundle)
		projects.PUT("/:pid/marketing/:slot", h.Marketing.EditSlot)
		projects.POST("/:pid/marketing/:slot/generate", h.Marketing.GenerateSlot)

		// 关键词
		projects.GET("/:pid/keywords", h.Marketing.GetKeywords)
		projects.PUT("/:pid/keywords", h.Marketing.SetKeywords)
		projects.POST("/:pid/keywords/generate", h.Marketing.GenerateKeywords)

		// 批量补全
		projects.POST("/:pid/bulk-runs", h.Run.StartRun)
		projects.GET("/:pid/bulk-runs/active", h.Run.GetActiveRun)
	}

	// 批量运行管理
	runs := v1.Group("/bulk-runs")
	{
		runs.GET("/:rid", h.Run.GetRun)
		runs.DELETE("/:rid", h.Run.CancelRun)
	}
}
