package proxy

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"google.golang.org/api/iterator"

	"github.com/mgorsk1/amundsenmetadatalibrary/api"
)

// ownersTemplateName is the display name of the tag template every
// ingestion path uses to record resource ownership.
const ownersTemplateName = "Resource Owners"

var (
	// Every rdbms connector creates a tag template with a "- Metadata"
	// suffix containing additional metadata.  The dashboard connector
	// uses two templates of its own.
	metadataTemplatePattern  = regexp.MustCompile(`.*- Metadata$`)
	dashboardTemplatePattern = regexp.MustCompile(`.*Dashboard Metadata$`)
	workbookTemplatePattern  = regexp.MustCompile(`.*Workbook Metadata$`)

	// ownerFieldPattern matches the owner_<n> field keys of the
	// owners template.
	ownerFieldPattern = regexp.MustCompile(`^owner_([0-9]+)$`)

	errListTags = errors.New("failed to list tags")
)

// extractOwners returns the owners recorded on the given resource,
// main owner first.  The owners template keys its fields owner_<n>
// where by convention n is 1 for the main owner and the order of the
// remaining entries does not matter.  Owners are emitted in ascending
// numeric order of n because the catalog response order guarantees
// nothing; the sort must be numeric so that owner_10 follows owner_2.
func (p *Proxy) extractOwners(ctx context.Context, resource string) ([]api.User, error) {
	emails := map[int]string{}
	it := p.client.ListTags(ctx, resource)
	for {
		tag, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", errListTags, err)
		}
		if tag.GetTemplateDisplayName() != ownersTemplateName {
			continue
		}
		for key, field := range tag.GetFields() {
			m := ownerFieldPattern.FindStringSubmatch(key)
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			emails[n] = field.GetStringValue()
		}
	}

	positions := make([]int, 0, len(emails))
	for n := range emails {
		positions = append(positions, n)
	}
	sort.Ints(positions)

	owners := make([]api.User, 0, len(emails))
	for _, n := range positions {
		owners = append(owners, api.User{UserID: emails[n], Email: emails[n]})
	}
	return owners, nil
}

// extractMetadata flattens the string fields of every tag whose
// template display name matches pattern into one map.  When more than
// one matching tag carries the same key, the tag listed last wins;
// the catalog does not guarantee listing order, so collision priority
// is undefined.
func (p *Proxy) extractMetadata(ctx context.Context, resource string, pattern *regexp.Regexp) (map[string]string, error) {
	result := map[string]string{}
	it := p.client.ListTags(ctx, resource)
	for {
		tag, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", errListTags, err)
		}
		if !pattern.MatchString(tag.GetTemplateDisplayName()) {
			continue
		}
		for key, field := range tag.GetFields() {
			result[key] = field.GetStringValue()
		}
	}
	return result, nil
}
