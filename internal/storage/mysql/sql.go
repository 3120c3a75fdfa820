package mysql

// seq is never touched on update so catalog order stays stable across syncs.
const upsertAttractionSQL = `
INSERT INTO attractions
  (id, name, city, state, lat, lon, geohash)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  city       = VALUES(city),
  state      = VALUES(state),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  geohash    = VALUES(geohash),
  updated_at = CURRENT_TIMESTAMP
`

const listAttractionsSQL = `
SELECT id, name, city, state, lat, lon
FROM attractions
ORDER BY seq
`
