package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"blog/pkg/client"
	"blog/pkg/logger"
)

var samplePosts = []client.NewPost{
	{
		Title:   "Hello, world",
		Content: "This is the first post on the blog. It is mostly here so the home page has something to show.",
	},
	{
		Title:   "Setting up the server",
		Content: "The blog runs as a single Go binary.\nPosts live in a JSON file by default, and images are written next to the other static files.",
	},
	{
		Title:   "A picture post",
		Content: "Posts can carry one image. This one comes from the cat API when the seeder is allowed to fetch it.",
	},
	{
		Title:   "Notes on the feed",
		Content: "Every post also shows up in the RSS feed at /rss.xml, newest first, with the same short snippet the home page uses.",
	},
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "base URL of the running blog")
		token   = flag.String("token", os.Getenv("ADMIN_TOKEN"), "admin token sent with each post")
		cats    = flag.Bool("cats", false, "attach a cat picture from cataas.com to every other post")
		force   = flag.Bool("force", false, "seed even when posts already exist")
	)
	flag.Parse()

	log := logger.New()
	ctx := context.Background()
	api := client.New(*baseURL, *token)

	existing, err := api.ListPosts(ctx)
	if err != nil {
		log.Error("Failed to list posts: %v", err)
		os.Exit(1)
	}
	if len(existing) > 0 && !*force {
		log.Info("Found %d posts, skipping seed (use -force to add more)", len(existing))
		return
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	created := 0
	for i, post := range samplePosts {
		if *cats && i%2 == 0 {
			image, err := fetchCatImage(httpClient, post.Title)
			if err != nil {
				log.Warn("Failed to fetch cat image, posting without one: %v", err)
			} else {
				post.Image = image
				post.ImageName = fmt.Sprintf("cat-%d.jpg", i+1)
			}
		}

		result, err := api.CreatePost(ctx, post)
		if err != nil {
			log.Error("Failed to create post %q: %v", post.Title, err)
			continue
		}
		log.Info("Created post %s: %s", result.ID, result.Title)
		created++

		// keeps creation timestamps distinct on the file store
		time.Sleep(200 * time.Millisecond)
	}

	log.Info("Seeded %d of %d posts", created, len(samplePosts))
}

func fetchCatImage(httpClient *http.Client, caption string) ([]byte, error) {
	cataasURL := "https://cataas.com/cat/says/" + url.PathEscape(caption)
	resp, err := httpClient.Get(cataasURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cat image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cataas API returned status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
}
