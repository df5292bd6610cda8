package db

// Repositories provides access to all database repositories
type Repositories struct {
	Venues     *VenueRepository
	Songs      *SongRepository
	QueueItems *QueueItemRepository
	NowPlaying *NowPlayingRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Venues:     NewVenueRepository(db),
		Songs:      NewSongRepository(db),
		QueueItems: NewQueueItemRepository(db),
		NowPlaying: NewNowPlayingRepository(db),
	}
}
