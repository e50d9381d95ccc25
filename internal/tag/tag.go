// Package tag provides image tagging operations for the CLI layer.
//
// This package orchestrates tag add/remove/list and tag store operations,
// handling both the service calls and the human-readable output. JSON
// output is produced by the caller from the returned Result.
package tag

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/imgtag/internal/format"
	"github.com/jpl-au/imgtag/internal/service"
)

// Result contains the outcome of a tag operation.
type Result struct {
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name,omitempty"` // canonical file name after the change
	Tag    string          `json:"tag,omitempty"`
	Action string          `json:"action,omitempty"`
	Tags   []string        `json:"tags"`
	Images []service.Image `json:"images,omitempty"`
}

// Add adds tags to an image.
func Add(ctx context.Context, w io.Writer, svc service.Service, ref string, tags ...string) (Result, error) {
	result := Result{Action: "add", Tag: strings.Join(tags, " ")}
	img, err := svc.AddTags(ctx, ref, tags...)
	fill(&result, img)
	if err != nil {
		return result, err
	}
	fmt.Fprintf(w, "Tagged %s\n", img.Name)
	return result, nil
}

// Remove removes tags from an image, or every tag when all is set.
func Remove(ctx context.Context, w io.Writer, svc service.Service, ref string, all bool, tags ...string) (Result, error) {
	result := Result{Action: "remove", Tag: strings.Join(tags, " ")}
	var (
		img service.Image
		err error
	)
	if all {
		result.Action = "remove_all"
		img, err = svc.RemoveAllTags(ctx, ref)
	} else {
		img, err = svc.RemoveTags(ctx, ref, tags...)
	}
	fill(&result, img)
	if err != nil {
		return result, err
	}
	fmt.Fprintf(w, "Untagged %s\n", img.Name)
	return result, nil
}

// List lists the tags of an image, or every tag when ref is empty.
func List(ctx context.Context, w io.Writer, svc service.Service, ref string) (Result, error) {
	result := Result{Action: "list"}
	if ref == "" {
		all := svc.Tags(ctx)
		result.Tags = make([]string, len(all))
		for i, t := range all {
			result.Tags[i] = t.Name
		}
		return result, format.Tags(w, all)
	}

	img, err := svc.Resolve(ctx, ref)
	if err != nil {
		return result, err
	}
	fill(&result, img)
	for _, t := range img.Tags {
		fmt.Fprintln(w, t)
	}
	return result, nil
}

// Images lists the images carrying a tag.
func Images(ctx context.Context, w io.Writer, svc service.Service, tag string) (Result, error) {
	result := Result{Action: "images", Tag: tag, Tags: []string{}}
	imgs, err := svc.TaggedImages(ctx, tag)
	if err != nil {
		return result, err
	}
	result.Images = imgs
	return result, format.List(w, imgs)
}

// Create registers a tag without attaching it.
func Create(ctx context.Context, w io.Writer, svc service.Service, tag string) (Result, error) {
	result := Result{Action: "create", Tag: tag, Tags: []string{}}
	info, err := svc.CreateTag(ctx, tag)
	if err != nil {
		return result, err
	}
	result.Tag = info.Name
	fmt.Fprintf(w, "Created tag @%s\n", info.Name)
	return result, nil
}

// Delete removes a tag from the store and every image carrying it.
func Delete(ctx context.Context, w io.Writer, svc service.Service, tag string) (Result, error) {
	result := Result{Action: "delete", Tag: tag, Tags: []string{}}
	imgs, err := svc.DeleteTag(ctx, tag)
	result.Images = imgs
	if err != nil {
		return result, err
	}
	fmt.Fprintf(w, "Deleted tag %s from %d image(s)\n", tag, len(imgs))
	return result, nil
}

func fill(r *Result, img service.Image) {
	r.ID = img.ID
	r.Name = img.Name
	r.Tags = img.Tags
	if r.Tags == nil {
		r.Tags = []string{}
	}
}
