package service_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/repo"
)

// tempCatalogue creates a photo tree with one image and opens a catalogue
// for it.
func tempCatalogue() (*catalog.Service, string, func()) {
	dir, err := os.MkdirTemp("", "imgtag-example-*")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "beach.jpg"), []byte("jpg"), 0644); err != nil {
		panic(err)
	}
	if err := catalog.Init(false, "", false, dir); err != nil {
		panic(err)
	}
	svc, err := catalog.Open(filepath.Join(dir, repo.Dir, repo.DBFile), nil)
	if err != nil {
		panic(err)
	}
	if _, err := svc.Ingest(context.Background(), io.Discard, dir, ingest.Options{}); err != nil {
		panic(err)
	}
	cleanup := func() {
		svc.Close()
		os.RemoveAll(dir)
	}
	return svc, dir, cleanup
}

func Example_tagging() {
	svc, dir, cleanup := tempCatalogue()
	defer cleanup()
	ctx := context.Background()

	img, err := svc.AddTags(ctx, filepath.Join(dir, "beach.jpg"), "sea", "sun")
	if err != nil {
		panic(err)
	}
	fmt.Println(img.Name)
	fmt.Println(img.Versions)

	img, err = svc.RemoveTags(ctx, img.ID, "sea")
	if err != nil {
		panic(err)
	}
	fmt.Println(img.Name)
	// Output:
	// beach @sea @sun.jpg
	// 3
	// beach @sun.jpg
}

func Example_revert() {
	svc, dir, cleanup := tempCatalogue()
	defer cleanup()
	ctx := context.Background()

	img, _ := svc.AddTags(ctx, filepath.Join(dir, "beach.jpg"), "sea")
	img, _ = svc.RemoveAllTags(ctx, img.ID)
	img, err := svc.Revert(ctx, img.ID, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(img.Tags)

	hist, _ := svc.History(ctx, img.ID)
	for _, v := range hist {
		fmt.Println(v.Index, v.Name)
	}
	// Output:
	// [sea]
	// 0 beach.jpg
	// 1 beach @sea.jpg
	// 2 beach.jpg
	// 3 beach @sea.jpg
}
