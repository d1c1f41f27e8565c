package chapters

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/htmlutil"
	"github.com/talesforge/talesforge/pkg/models"
)

type handler struct {
	chapterService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	chapters, err := h.chapterService.ListChapters(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapters))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	chapter, err := h.chapterService.RetrieveChapter(ctx, RetrieveChapterOptions{
		Slug: &slug,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	data := params.Data
	chapter := &models.Chapter{
		Title:         data.Title,
		Slug:          data.Slug,
		Content:       data.Content,
		Excerpt:       data.Excerpt,
		ChapterNumber: data.ChapterNumber,
		ReadingTime:   data.ReadingTime,
		ImageURL:      data.ImageURL,
	}
	if data.PublishedAt != nil {
		chapter.PublishedAt = *data.PublishedAt
	}
	if chapter.ReadingTime == 0 {
		chapter.ReadingTime = htmlutil.ReadingTime(chapter.Content)
	}
	params.Translations.Apply(i18nTargets(chapter))

	if err := h.chapterService.CreateChapter(ctx, chapter); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, chapter))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	params := UpdateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	chapter, err := h.chapterService.retrieveChapter(ctx, RetrieveChapterOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateChapterOptions{Columns: []string{}}
	data := params.Data
	if data.Title != nil && *data.Title != chapter.Title {
		chapter.Title = *data.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if data.Slug != nil && *data.Slug != chapter.Slug {
		chapter.Slug = *data.Slug
		opts.Columns = append(opts.Columns, "slug")
	}
	if data.Content != nil && *data.Content != chapter.Content {
		chapter.Content = *data.Content
		opts.Columns = append(opts.Columns, "content")
	}
	if data.Excerpt != nil && *data.Excerpt != chapter.Excerpt {
		chapter.Excerpt = *data.Excerpt
		opts.Columns = append(opts.Columns, "excerpt")
	}
	if data.ChapterNumber != nil && *data.ChapterNumber != chapter.ChapterNumber {
		chapter.ChapterNumber = *data.ChapterNumber
		opts.Columns = append(opts.Columns, "chapter_number")
	}
	if data.ReadingTime != nil && *data.ReadingTime != chapter.ReadingTime {
		chapter.ReadingTime = *data.ReadingTime
		opts.Columns = append(opts.Columns, "reading_time")
	}
	if data.PublishedAt != nil && !data.PublishedAt.Equal(chapter.PublishedAt) {
		chapter.PublishedAt = *data.PublishedAt
		opts.Columns = append(opts.Columns, "published_at")
	}
	if data.ImageURL != nil {
		// An empty string clears the image.
		if *data.ImageURL == "" {
			chapter.ImageURL = nil
		} else {
			chapter.ImageURL = data.ImageURL
		}
		opts.Columns = append(opts.Columns, "image_url")
	}
	opts.Columns = append(opts.Columns, params.Translations.Apply(i18nTargets(chapter))...)

	if err := h.chapterService.UpdateChapter(ctx, chapter, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	if err := h.chapterService.DeleteChapter(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{"success": true}))
}

func i18nTargets(chapter *models.Chapter) map[string]*models.I18n {
	return map[string]*models.I18n{
		"title":   &chapter.TitleI18n,
		"content": &chapter.ContentI18n,
		"excerpt": &chapter.ExcerptI18n,
	}
}
