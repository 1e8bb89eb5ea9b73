package characters

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch rescans the directory whenever voices are added, removed or renamed
// and passes each changed list to onChange. It blocks until ctx is done.
func (p *DirProvider) Watch(ctx context.Context, onChange func([]string)) error {
	if p.dir == "" {
		return ErrNoVoiceDir
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(p.dir); err != nil {
		return err
	}
	log.Info("watching voices", "dir", p.dir)

	current, _ := p.Characters()

	for {
		select {
		case <-ctx.Done():
			log.Debug("voices unwatched", "dir", p.dir)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("voices event", "file", event.Name, "event", event.Op)

			names, err := p.Refresh()
			if err != nil {
				log.Warn("failed to rescan voices", "dir", p.dir, "error", err)
				continue
			}
			if slices.Equal(names, current) {
				continue
			}
			current = names
			if onChange != nil {
				onChange(slices.Clone(names))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("voices watcher error", "dir", p.dir, "error", err)
		}
	}
}
