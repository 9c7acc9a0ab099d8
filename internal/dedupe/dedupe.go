// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent recommendation requests. Only one OpenAI call runs for a given
// session/turn key while other callers wait for the same result.
package dedupe

import "golang.org/x/sync/singleflight"

// RecommendationGroup deduplicates advisor calls keyed by
// "<session_id>:<turn_number>:<actor_id>".
var RecommendationGroup singleflight.Group
