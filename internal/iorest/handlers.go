package iorest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gnforms/pkg/assembler"
	"github.com/gnames/gnforms/pkg/qversion"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := s.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User successfully registered",
		"user":    u,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) profile(c *gin.Context) {
	u, err := s.auth.Profile(c.Request.Context(), who(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req passwordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := s.auth.ChangePassword(
		c.Request.Context(), who(c), req.CurrentPassword, req.NewPassword,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (s *Server) importCSV(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, NoFileError())
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, UploadError(err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, UploadError(err))
		return
	}

	res, err := s.fb.ImportCSV(c.Request.Context(), fh.Filename, data, who(c))
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.imports.Inc()
	c.JSON(http.StatusCreated, res)
}

func (s *Server) listImports(c *gin.Context) {
	res, err := s.fb.ListImports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getImport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := s.fb.Import(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) deleteImport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.fb.DeleteImport(c.Request.Context(), id, who(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File and associated data deleted"})
}

func (s *Server) exportImport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	name, data, err := s.fb.ExportImport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, name, data)
}

func (s *Server) listForms(c *gin.Context) {
	res, err := s.fb.ListForms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := s.fb.FormTree(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) createForm(c *gin.Context) {
	var def assembler.FormDefinition
	if !bindJSON(c, &def) {
		return
	}
	res, err := s.fb.CreateForm(c.Request.Context(), def, who(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type fromQuestionsRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	QuestionIDs []uint `json:"question_ids"`
}

func (s *Server) createFormFromQuestions(c *gin.Context) {
	var req fromQuestionsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.fb.CreateFormFromQuestions(
		c.Request.Context(), req.Name, req.Description, req.QuestionIDs, who(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) convertImports(c *gin.Context) {
	forms, err := s.fb.ConvertImports(c.Request.Context(), who(c))
	if err != nil {
		respondError(c, err)
		return
	}
	names := make([]string, len(forms))
	for i := range forms {
		names[i] = forms[i].Name
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Forms created from imports",
		"count":   len(forms),
		"forms":   names,
	})
}

func (s *Server) deleteForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.fb.DeleteForm(c.Request.Context(), id, who(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Form deleted"})
}

func (s *Server) exportForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	name, data, err := s.fb.ExportForm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, name, data)
}

func (s *Server) history(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := s.fb.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) listVersions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := s.fb.ListVersions(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) updateQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var edits qversion.Edits
	if !bindJSON(c, &edits) {
		return
	}
	res, err := s.fb.UpdateQuestion(c.Request.Context(), id, edits, who(c))
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.versions.Inc()
	c.JSON(http.StatusCreated, res)
}

func (s *Server) deleteQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	err := s.fb.DeleteQuestionVersion(c.Request.Context(), id, who(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question version deleted"})
}
