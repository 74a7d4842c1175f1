package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"files-manager-api/internal/application/ports"
	domain "files-manager-api/internal/domain/file"
	"files-manager-api/internal/interface/api/rest/dto/file"
	"files-manager-api/internal/interface/api/rest/middleware"
	"files-manager-api/internal/interface/api/rest/validator"
)

type FileController struct {
	fileService    ports.FileService
	contentService ports.ContentService
	logger         *zap.Logger
}

func NewFileController(
	r *gin.Engine,
	fileService ports.FileService,
	contentService ports.ContentService,
	sessions ports.SessionResolver,
	logger *zap.Logger,
) *FileController {
	fc := &FileController{
		fileService:    fileService,
		contentService: contentService,
		logger:         logger,
	}

	auth := middleware.AuthMiddleware(sessions, logger)

	r.POST(RouteFiles, auth, fc.CreateFileHandler)
	r.GET(RouteFiles, auth, fc.GetFilesHandler)
	r.GET(RouteFile, auth, fc.GetFileHandler)
	r.PUT(RouteFilePublish, auth, fc.PublishHandler)
	r.PUT(RouteFileUnpublish, auth, fc.UnpublishHandler)
	// visibility decides whether a session is needed
	r.GET(RouteFileData, fc.GetFileDataHandler)

	return fc
}

func (fc *FileController) CreateFileHandler(c *gin.Context) {
	var req file.CreateRequest
	// an empty body is reported field by field like any other
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	parent, err := validator.ParseJSONParentID(req.ParentID)
	if err != nil {
		// an id that cannot be parsed names no folder
		parent = domain.ParentOf(domain.ID{})
	}

	f, err := fc.fileService.CreateFile(
		c.Request.Context(),
		middleware.UserID(c),
		file.ToCreateParams(req, parent),
	)
	if err != nil {
		fc.writeError(c, "CreateFile", "failed to create a file", err)
		return
	}

	c.JSON(http.StatusCreated, file.ToResponseFile(*f))
}

func (fc *FileController) GetFileHandler(c *gin.Context) {
	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
		return
	}

	f, err := fc.fileService.FindUserFile(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fc.writeError(c, "FindUserFile", "failed to get a file", err)
		return
	}

	c.JSON(http.StatusOK, file.ToResponseDetail(*f))
}

func (fc *FileController) GetFilesHandler(c *gin.Context) {
	page := validator.ValidatePage(c.Query("page"))

	parent, err := validator.ParseParentID(c.Query("parentId"))
	if err != nil {
		// nothing can live under an id that does not parse
		c.JSON(http.StatusOK, file.Files{})
		return
	}

	files, err := fc.fileService.FindUserFiles(c.Request.Context(), middleware.UserID(c), parent, page)
	if err != nil {
		fc.writeError(c, "FindUserFiles", "failed to get files", err)
		return
	}

	c.JSON(http.StatusOK, file.ToResponseFiles(files))
}

func (fc *FileController) PublishHandler(c *gin.Context)   { fc.setPublic(c, true) }
func (fc *FileController) UnpublishHandler(c *gin.Context) { fc.setPublic(c, false) }

func (fc *FileController) setPublic(c *gin.Context, isPublic bool) {
	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
		return
	}

	f, err := fc.fileService.SetPublic(c.Request.Context(), middleware.UserID(c), id, isPublic)
	if err != nil {
		fc.writeError(c, "SetPublic", "failed to update a file", err)
		return
	}

	c.JSON(http.StatusOK, file.ToResponseFile(*f))
}

func (fc *FileController) GetFileDataHandler(c *gin.Context) {
	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
		return
	}

	content, err := fc.contentService.GetContent(
		c.Request.Context(),
		id,
		c.Query("size"),
		c.GetHeader(middleware.HeaderToken),
	)
	if err != nil {
		fc.writeError(c, "GetContent", "failed to read a file", err)
		return
	}
	defer content.Body.Close()

	c.DataFromReader(
		http.StatusOK,
		content.Size,
		content.ContentType,
		content.Body,
		map[string]string{
			"Content-Disposition": fmt.Sprintf(`inline; filename="%s"`, content.FileName),
		},
	)
}

func (fc *FileController) writeError(c *gin.Context, op, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
	case domain.IsValidation(err):
		var ve *domain.ValidationError
		errors.As(err, &ve)
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		fc.logger.Error(op+"() error", zap.Error(err))
	}
}
