package models

// BlogPost is the editable form of a blog entry.
type BlogPost struct {
	ID          string   `json:"id,omitempty"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Image       MediaRef `json:"image"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
	Meta
}

func (b *BlogPost) Kind() Kind         { return KindBlog }
func (b *BlogPost) Key() string        { return b.ID }
func (b *BlogPost) Media() []*MediaRef { return []*MediaRef{&b.Image} }
func (b *BlogPost) Finalize()          {}

// NewBlogPost returns a blank blog post.
func NewBlogPost() *BlogPost {
	return &BlogPost{Tags: []string{}}
}

func blogPostFromRecord(rec *BlogPost) *BlogPost {
	b := copyOf(rec)
	b.Tags = orEmpty(b.Tags)
	return b
}

// Blog post fields
var (
	BlogSlug      = Field("slug", func(b *BlogPost) *string { return &b.Slug })
	BlogTitle     = Field("title", func(b *BlogPost) *string { return &b.Title })
	BlogExcerpt   = Field("excerpt", func(b *BlogPost) *string { return &b.Excerpt })
	BlogContent   = Field("content", func(b *BlogPost) *string { return &b.Content })
	BlogAuthor    = Field("author", func(b *BlogPost) *string { return &b.Author })
	BlogImage     = Field("image", func(b *BlogPost) *MediaRef { return &b.Image })
	BlogTags      = Field("tags", func(b *BlogPost) *[]string { return &b.Tags })
	BlogPublished = Field("isPublished", func(b *BlogPost) *bool { return &b.IsPublished })
)
