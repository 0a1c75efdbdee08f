package api_router

import (
	"github.com/haierkeys/fridge-board-service/internal/app"
	"github.com/haierkeys/fridge-board-service/internal/dto"
	"github.com/haierkeys/fridge-board-service/internal/service"
	pkgapp "github.com/haierkeys/fridge-board-service/pkg/app"
	"github.com/haierkeys/fridge-board-service/pkg/code"
	"github.com/haierkeys/fridge-board-service/pkg/fileurl"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageHandler 图片 API 路由处理器
type ImageHandler struct {
	*Handler
}

// NewImageHandler 创建 ImageHandler 实例
func NewImageHandler(a *app.App) *ImageHandler {
	return &ImageHandler{Handler: NewHandler(a)}
}

// List 获取全部图片
// @Summary 获取图片列表
// @Description 返回全部图片，按创建时间倒序
// @Tags 图片
// @Produce json
// @Success 200 {array} dto.ImageRes "成功"
// @Router /api/images [get]
func (h *ImageHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	images, err := h.App.ImageService.List(c.Request.Context())
	if err != nil {
		h.App.Logger().Error("ImageHandler.List err", zap.Error(err))
		respondError(response, err)
		return
	}

	response.ToEntity(images)
}

// Get 获取单个图片
// @Summary 获取图片
// @Description 按 ID 返回单个图片
// @Tags 图片
// @Produce json
// @Param id path string true "图片 ID"
// @Success 200 {object} dto.ImageRes "成功"
// @Failure 404 {object} pkgapp.ErrorRes "图片不存在"
// @Router /api/images/{id} [get]
func (h *ImageHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	image, err := h.App.ImageService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(response, err)
		return
	}

	response.ToEntity(image)
}

// Upload 上传图片
// @Summary 上传图片
// @Description 上传图片文件并创建元数据，随后向房间广播 image_created
// @Tags 图片
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "图片文件"
// @Param positionX formData number false "横向位置"
// @Param positionY formData number false "纵向位置"
// @Success 201 {object} dto.ImageRes "成功"
// @Router /api/images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ImageUploadRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ImageHandler.Upload.BindAndValid err", zap.Error(errs))
		response.ToError(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ToError(code.ErrorNoFileProvided)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.App.Logger().Error("ImageHandler.Upload open err", zap.Error(err))
		respondError(response, err)
		return
	}
	defer file.Close()

	image, err := h.App.ImageService.Upload(c.Request.Context(), &service.ImageUploadParams{
		File:         file,
		OriginalName: fileurl.GetFileNameOrRandom(fileHeader.Filename),
		ContentType:  fileHeader.Header.Get("Content-Type"),
		PositionX:    params.PositionX,
		PositionY:    params.PositionY,
		AccessHost:   c.GetString("access_host"),
	})
	if err != nil {
		h.App.Logger().Error("ImageHandler.Upload err", zap.String("filename", fileHeader.Filename), zap.Error(err))
		respondError(response, err)
		return
	}

	response.ToCreated(image)
}

// Update 更新图片
// @Summary 更新图片
// @Description 更新图片位置并向房间广播 image_updated，缺省字段保持原值
// @Tags 图片
// @Accept json
// @Produce json
// @Param id path string true "图片 ID"
// @Param params body dto.ImageUpdateRequest true "更新参数"
// @Success 200 {object} dto.ImageRes "成功"
// @Router /api/images/{id} [put]
func (h *ImageHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ImageUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ImageHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToError(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	image, err := h.App.ImageService.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(response, err)
		return
	}

	response.ToEntity(image)
}

// UpdatePosition 更新图片位置
// @Summary 移动图片
// @Description 更新图片位置并向房间广播 image_position_updated
// @Tags 图片
// @Accept json
// @Produce json
// @Param id path string true "图片 ID"
// @Param params body dto.PositionUpdateRequest true "位置参数"
// @Success 200 {object} dto.ImageRes "成功"
// @Router /api/images/{id}/position [patch]
func (h *ImageHandler) UpdatePosition(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PositionUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ImageHandler.UpdatePosition.BindAndValid err", zap.Error(errs))
		response.ToError(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	image, err := h.App.ImageService.UpdatePosition(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(response, err)
		return
	}

	response.ToEntity(image)
}

// Delete 删除图片
// @Summary 删除图片
// @Description 删除图片元数据并尽力清理对象，随后向房间广播 image_deleted
// @Tags 图片
// @Produce json
// @Param id path string true "图片 ID"
// @Success 200 {object} pkgapp.SuccessRes "成功"
// @Router /api/images/{id} [delete]
func (h *ImageHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	if err := h.App.ImageService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(response, err)
		return
	}

	response.ToSuccess()
}
