package domain

import "time"

// BlogPost описывает запись блога для витрины.
type BlogPost struct {
	Title    string
	Excerpt  string
	ImageURL string
	Date     time.Time
}

// DefaultBlogPosts — записи, которые показываются, пока в хранилище нет своих.
func DefaultBlogPosts() []BlogPost {
	return []BlogPost{
		{
			Title:    "Summer Makeup Trends 2025",
			Excerpt:  "Discover the hottest makeup looks for the summer season.",
			ImageURL: "https://images.unsplash.com/photo-1688953228417-8ec4007eb532?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&q=80&w=1080",
			Date:     time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:    "Skincare Routine Guide",
			Excerpt:  "Build the perfect skincare routine for your skin type.",
			ImageURL: "https://images.unsplash.com/photo-1665763630810-e6251bdd392d?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&q=80&w=1080",
			Date:     time.Date(2024, time.December, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:    "Fragrance Layering Tips",
			Excerpt:  "Learn how to layer fragrances like a professional.",
			ImageURL: "https://images.unsplash.com/photo-1757313202626-8b763ce254a1?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&q=80&w=1080",
			Date:     time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}
