package api_router

import (
	"github.com/haierkeys/fridge-board-service/internal/app"
	"github.com/haierkeys/fridge-board-service/internal/dto"
	pkgapp "github.com/haierkeys/fridge-board-service/pkg/app"
	"github.com/haierkeys/fridge-board-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 便签 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// List 获取全部便签
// @Summary 获取便签列表
// @Description 返回全部便签，按创建时间倒序
// @Tags 便签
// @Produce json
// @Success 200 {array} dto.NoteRes "成功"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	notes, err := h.App.NoteService.List(c.Request.Context())
	if err != nil {
		h.App.Logger().Error("NoteHandler.List err", zap.Error(err))
		respondError(response, err)
		return
	}

	response.ToEntity(notes)
}

// Get 获取单个便签
// @Summary 获取便签
// @Description 按 ID 返回单个便签
// @Tags 便签
// @Produce json
// @Param id path string true "便签 ID"
// @Success 200 {object} dto.NoteRes "成功"
// @Failure 404 {object} pkgapp.ErrorRes "便签不存在"
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	note, err := h.App.NoteService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(response, err)
		return
	}

	response.ToEntity(note)
}

// Create 创建便签
// @Summary 创建便签
// @Description 创建一条便签并向房间广播 note_created
// @Tags 便签
// @Accept json
// @Produce json
// @Param params body dto.NoteCreateRequest true "创建参数"
// @Success 201 {object} dto.NoteRes "成功"
// @Router /api/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToError(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	note, err := h.App.NoteService.Create(c.Request.Context(), params)
	if err != nil {
		h.App.Logger().Error("NoteHandler.Create err", zap.Error(err))
		respondError(response, err)
		return
	}

	response.ToCreated(note)
}

// Update 更新便签内容
// @Summary 更新便签
// @Description 更新便签内容并向房间广播 note_updated
// @Tags 便签
// @Accept json
// @Produce json
// @Param id path string true "便签 ID"
// @Param params body dto.NoteUpdateRequest true "更新参数"
// @Success 200 {object} dto.NoteRes "成功"
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToError(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	note, err := h.App.NoteService.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(response, err)
		return
	}

	response.ToEntity(note)
}

// UpdatePosition 更新便签位置
// @Summary 移动便签
// @Description 更新便签位置并向房间广播 position_updated
// @Tags 便签
// @Accept json
// @Produce json
// @Param id path string true "便签 ID"
// @Param params body dto.PositionUpdateRequest true "位置参数"
// @Success 200 {object} dto.NoteRes "成功"
// @Router /api/notes/{id}/position [patch]
func (h *NoteHandler) UpdatePosition(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PositionUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.UpdatePosition.BindAndValid err", zap.Error(errs))
		response.ToError(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	note, err := h.App.NoteService.UpdatePosition(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(response, err)
		return
	}

	response.ToEntity(note)
}

// Delete 删除便签
// @Summary 删除便签
// @Description 删除便签并向房间广播 note_deleted
// @Tags 便签
// @Produce json
// @Param id path string true "便签 ID"
// @Success 200 {object} pkgapp.SuccessRes "成功"
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	if err := h.App.NoteService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(response, err)
		return
	}

	response.ToSuccess()
}
