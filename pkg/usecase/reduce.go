package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

// fetchInto loads a list and replaces the store contents wholesale
func fetchInto[T model.Identifiable](ctx context.Context, store *Store[T], msg string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	store.begin()
	items, err := fetch(ctx)
	if err != nil {
		err = goerr.Wrap(err, msg)
		store.fail(err)
		return nil, err
	}
	store.replace(items)
	return items, nil
}

// loadCurrent loads one item and makes it the current item of the store
func loadCurrent[T model.Identifiable](ctx context.Context, store *Store[T], msg string, opts []goerr.Option, load func(context.Context) (T, error)) (T, error) {
	store.begin()
	item, err := load(ctx)
	if err != nil {
		var zero T
		err = goerr.Wrap(err, msg, opts...)
		store.fail(err)
		return zero, err
	}
	store.setCurrent(item)
	return item, nil
}

// createInto calls the API and prepends the created item
func createInto[T model.Identifiable](ctx context.Context, store *Store[T], msg string, create func(context.Context) (T, error)) (T, error) {
	store.begin()
	item, err := create(ctx)
	if err != nil {
		var zero T
		err = goerr.Wrap(err, msg)
		store.fail(err)
		return zero, err
	}
	store.prepend(item)
	return item, nil
}

// updateInto calls the API and replaces the matching item in place
func updateInto[T model.Identifiable](ctx context.Context, store *Store[T], msg string, opts []goerr.Option, update func(context.Context) (T, error)) (T, error) {
	store.begin()
	item, err := update(ctx)
	if err != nil {
		var zero T
		err = goerr.Wrap(err, msg, opts...)
		store.fail(err)
		return zero, err
	}
	store.upsert(item)
	return item, nil
}

// lookup returns the cached item, falling back to a GET when it is unknown
func lookup[T model.Identifiable](ctx context.Context, store *Store[T], id model.ID, get func(context.Context, model.ID) (T, error)) (T, error) {
	if item, ok := store.Find(id); ok {
		return item, nil
	}
	return get(ctx, id)
}
