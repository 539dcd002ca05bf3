// Package server exposes the clustering engine over HTTP/JSON.
//
// # Endpoints
//
//	POST /initialize_centroids  {data, n_clusters, init_method, seeds?, seed?}
//	POST /generate_dataset      {n_points?, shape?, clusters?, spread?, seed?}
//	POST /run_kmeans_step       {data, n_clusters, init_method, current_iter, prev_centers?, prev_labels?, seeds?, seed?}
//	POST /run_kmeans            {data, n_clusters, init_method, centroids?, max_iter?, seed?}
//	POST /reset_kmeans
//	GET  /metrics
//	GET  /healthz
//
// The server is stateless: a client stepping through a run sends the previous
// centers and the iteration number with every request.
//
// Errors are returned as {"error": "..."} with status 400 for invalid input,
// 422 for too few points, 429 for admission rejections and 500 otherwise.
package server
