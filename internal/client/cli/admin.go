package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	"github.com/dmitrijs2005/geokeeper/internal/filex"
	"github.com/dmitrijs2005/geokeeper/internal/netx"
)

// Upper bounds for files read by admin commands.
const (
	maxDatasetBytes = 10 << 20
	maxFlagBytes    = 5 << 20
)

// uploadToPresignedURL is a test seam for netx.UploadToPresignedURL.
var uploadToPresignedURL = netx.UploadToPresignedURL

// Push replaces the authoritative data set on the origin with the contents
// of a local JSON file (an array in the wire format). After a successful
// push the local cache is force-refreshed so the client immediately sees
// the new generation.
func (a *App) Push(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		printlnFn("Login first.")
		return nil
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		var err error
		path, err = getSimpleText(a.reader, "Enter data set file path", os.Stdout)
		if err != nil {
			return err
		}
	}

	data, err := filex.ReadFileLimited(path, maxDatasetBytes)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	var items []models.Country
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("error parsing data set: %v", err)
		return err
	}

	// push and setflag may rotate the token pair; keep the stored session
	// in step with the client
	defer a.persistSession(ctx)

	if err := a.apiClient.PushDataset(ctx, items); err != nil {
		log.Printf("push failed: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Pushed %d countries to the origin.", len(items)))

	a.catalog.Sync(ctx, true)
	return a.reportOutcome()
}

// SetFlag uploads a flag image for the named country: it asks the origin for
// a presigned PUT URL and uploads the file bytes there. Country names may
// contain spaces, so the last argument is the file and everything before it
// is the name.
func (a *App) SetFlag(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		printlnFn("Login first.")
		return nil
	}

	var name, path string
	switch {
	case len(args) >= 2:
		name = strings.Join(args[:len(args)-1], " ")
		path = args[len(args)-1]
	default:
		var err error
		if len(args) == 1 {
			name = args[0]
		} else {
			name, err = getSimpleText(a.reader, "Enter country name", os.Stdout)
			if err != nil {
				return err
			}
		}
		path, err = getSimpleText(a.reader, "Enter image file path", os.Stdout)
		if err != nil {
			return err
		}
	}

	image, err := filex.ReadFileLimited(path, maxFlagBytes)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	defer a.persistSession(ctx)

	url, err := a.apiClient.RequestFlagUpload(ctx, name)
	if err != nil {
		log.Printf("flag upload request failed: %v", err)
		return err
	}

	if err := uploadToPresignedURL(ctx, url, image, ""); err != nil {
		log.Printf("upload failed: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Flag uploaded for %s.", name))
	return nil
}
