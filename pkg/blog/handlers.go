package blog

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
)

type handler struct {
	blogService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPostsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListPostsOptions{}
	if params.Category != "" {
		opts.Category = &params.Category
	}

	posts, err := h.blogService.ListPosts(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, posts))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	post, err := h.blogService.RetrievePost(ctx, RetrievePostOptions{
		Slug: &slug,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, post))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreatePostPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	data := params.Data
	post := &models.BlogPost{
		Title:    data.Title,
		Slug:     data.Slug,
		Content:  data.Content,
		Excerpt:  data.Excerpt,
		Category: data.Category,
		ImageURL: data.ImageURL,
	}
	if data.PublishedAt != nil {
		post.PublishedAt = *data.PublishedAt
	}
	params.Translations.Apply(i18nTargets(post))

	if err := h.blogService.CreatePost(ctx, post); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, post))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Blog post")
	}

	params := UpdatePostPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	post, err := h.blogService.retrievePost(ctx, RetrievePostOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdatePostOptions{Columns: []string{}}
	data := params.Data
	if data.Title != nil && *data.Title != post.Title {
		post.Title = *data.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if data.Slug != nil && *data.Slug != post.Slug {
		post.Slug = *data.Slug
		opts.Columns = append(opts.Columns, "slug")
	}
	if data.Content != nil && *data.Content != post.Content {
		post.Content = *data.Content
		opts.Columns = append(opts.Columns, "content")
	}
	if data.Excerpt != nil && *data.Excerpt != post.Excerpt {
		post.Excerpt = *data.Excerpt
		opts.Columns = append(opts.Columns, "excerpt")
	}
	if data.Category != nil && *data.Category != post.Category {
		post.Category = *data.Category
		opts.Columns = append(opts.Columns, "category")
	}
	if data.PublishedAt != nil && !data.PublishedAt.Equal(post.PublishedAt) {
		post.PublishedAt = *data.PublishedAt
		opts.Columns = append(opts.Columns, "published_at")
	}
	if data.ImageURL != nil {
		if *data.ImageURL == "" {
			post.ImageURL = nil
		} else {
			post.ImageURL = data.ImageURL
		}
		opts.Columns = append(opts.Columns, "image_url")
	}
	opts.Columns = append(opts.Columns, params.Translations.Apply(i18nTargets(post))...)

	if err := h.blogService.UpdatePost(ctx, post, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, post))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Blog post")
	}

	if err := h.blogService.DeletePost(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{"success": true}))
}

func i18nTargets(post *models.BlogPost) map[string]*models.I18n {
	return map[string]*models.I18n{
		"title":   &post.TitleI18n,
		"content": &post.ContentI18n,
		"excerpt": &post.ExcerptI18n,
	}
}
