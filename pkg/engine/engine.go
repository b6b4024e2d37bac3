package engine

// Engine is the main search engine
type Engine struct {
	depth int

	// Root search cache
	cache *SearchCache
}

// EngineOptions configures the engine
type EngineOptions struct {
	Depth     int // Search depth in plies (0 = DefaultDepth)
	CacheSize int // Result cache size (0 = default, negative = disabled)
}

// DefaultEngineOptions returns the options used by the CLIs
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Depth:     DefaultDepth,
		CacheSize: DefaultCacheSize,
	}
}

// NewEngine creates a new engine with the given options
func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{depth: opts.Depth}
	if e.depth <= 0 {
		e.depth = DefaultDepth
	}

	cacheSize := opts.CacheSize
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheSize > 0 {
		e.cache = NewSearchCache(uint32(cacheSize))
	}

	return e
}

// Depth returns the configured search depth
func (e *Engine) Depth() int {
	return e.depth
}

// Cache returns the result cache (may be nil if disabled)
func (e *Engine) Cache() *SearchCache {
	return e.cache
}

// SetCache sets the result cache (use nil to disable caching)
func (e *Engine) SetCache(cache *SearchCache) {
	e.cache = cache
}

// BestMove searches the board for the player at the configured depth
func (e *Engine) BestMove(b Board, player Player) Result {
	return e.BestMoveDepth(b, player, e.depth)
}

// BestMoveDepth searches the board for the player at an explicit depth.
// Cached results are returned as-is, including the node count of the
// search that produced them.
func (e *Engine) BestMoveDepth(b Board, player Player, depth int) Result {
	if e.cache == nil {
		return BestMove(b, player, depth)
	}

	key := b.Key()
	ctx := MakeSearchContext(player, depth)

	var r Result
	slot := e.cache.Lookup(key, ctx, &r)
	if slot == CacheHit {
		return r
	}

	r = BestMove(b, player, depth)
	e.cache.Add(key, ctx, r, slot)
	return r
}
