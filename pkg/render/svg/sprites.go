package svg

import (
	"sort"
	"strings"
)

const (
	personSprite    = `<circle cx="50" cy="25" r="15" fill="currentColor"/><path d="M 25 80 Q 25 45 50 45 Q 75 45 75 80 Z" fill="currentColor"/>`
	databaseSprite  = `<path d="M20,30 L20,70 A30,15 0 0,0 80,70 L80,30 A30,15 0 0,0 20,30 A30,15 0 0,0 80,30 A30,15 0 0,0 20,30 Z M20,30 A30,15 0 0,1 80,30" fill="none" stroke="currentColor" stroke-width="8"/>`
	cloudSprite     = `<path d="M25,60 A15,15 0 0,1 25,30 A20,20 0 0,1 55,30 A15,15 0 0,1 55,60 Z" stroke="currentColor" stroke-width="5" fill="none" transform="scale(1.5) translate(-15, 0)"/>`
	serverSprite    = `<rect x="20" y="20" width="60" height="60" rx="5" fill="none" stroke="currentColor" stroke-width="5"/><circle cx="30" cy="30" r="3" fill="currentColor"/><circle cx="30" cy="45" r="3" fill="currentColor"/>`
	containerSprite = `<path d="M10,50 L30,50 L30,70 L10,70 Z M35,50 L55,50 L55,70 L35,70 Z M60,50 L80,50 L80,70 L60,70 Z M35,25 L55,25 L55,45 L35,45 Z" fill="currentColor"/>`
	componentSprite = `<rect x="25" y="25" width="50" height="50" fill="none" stroke="currentColor" stroke-width="5"/><rect x="15" y="35" width="20" height="10" fill="currentColor"/><rect x="15" y="55" width="20" height="10" fill="currentColor"/>`
)

// sprites maps lower-case names to SVG fragments drawn in a 100×100 box
// using currentColor.
var sprites = map[string]string{
	"person":    personSprite,
	"user":      personSprite,
	"database":  databaseSprite,
	"db":        databaseSprite,
	"cloud":     cloudSprite,
	"node":      serverSprite,
	"server":    serverSprite,
	"container": containerSprite,
	"docker":    containerSprite,
	"component": componentSprite,

	"aws-s3":          `<path d="M20,25 L80,25 L72,80 Q50,90 28,80 Z" fill="none" stroke="currentColor" stroke-width="6"/><ellipse cx="50" cy="25" rx="30" ry="8" fill="none" stroke="currentColor" stroke-width="6"/>`,
	"aws-lambda":      `<path d="M25,85 L45,45 L35,20 L50,20 L75,85 L62,85 L48,52 L38,85 Z" fill="currentColor"/>`,
	"azure-functions": `<path d="M30,20 L15,50 L30,80 M70,20 L85,50 L70,80" fill="none" stroke="currentColor" stroke-width="7"/><path d="M55,15 L38,52 L52,52 L44,85 L64,44 L50,44 Z" fill="currentColor"/>`,
	"gcp-pubsub":      `<circle cx="50" cy="50" r="10" fill="currentColor"/><circle cx="20" cy="25" r="8" fill="currentColor"/><circle cx="80" cy="25" r="8" fill="currentColor"/><circle cx="50" cy="88" r="8" fill="currentColor"/><path d="M50,50 L20,25 M50,50 L80,25 M50,50 L50,88" stroke="currentColor" stroke-width="5"/>`,
}

var spriteVendors = []string{"aws", "azure", "gcp", "google"}

// spriteKeys is the sorted key list, shortest first, used for suffix
// matching.
var spriteKeys = func() []string {
	keys := make([]string, 0, len(sprites))
	for k := range sprites {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// LookupSprite resolves a sprite name: exact match, then a vendor-prefixed
// name ("s3" finds "aws-s3"), then any key ending in "-name".
func LookupSprite(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if s, ok := sprites[key]; ok {
		return s, true
	}
	for _, v := range spriteVendors {
		if s, ok := sprites[v+"-"+key]; ok {
			return s, true
		}
	}
	suffix := "-" + key
	for _, k := range spriteKeys {
		if strings.HasSuffix(k, suffix) {
			return sprites[k], true
		}
	}
	return "", false
}

// SpriteNames returns every registered sprite name, sorted.
func SpriteNames() []string {
	names := make([]string, 0, len(sprites))
	for k := range sprites {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
