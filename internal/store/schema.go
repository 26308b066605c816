/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package store

// schema holds idempotent DDL. Masters carry a position column because file
// order is contractual: it decides fleet priority and tie-breaks.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS trucks (
		position INTEGER NOT NULL,
		truck_id INTEGER PRIMARY KEY,
		truck_name TEXT NOT NULL,
		width BIGINT NOT NULL,
		depth BIGINT NOT NULL,
		height BIGINT NOT NULL,
		max_weight DOUBLE PRECISION NOT NULL,
		default_use BOOLEAN NOT NULL,
		arrival_day_offset INTEGER NOT NULL,
		departure_time TEXT NOT NULL DEFAULT '',
		arrival_time TEXT NOT NULL DEFAULT '',
		priority_product_codes TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS containers (
		position INTEGER NOT NULL,
		container_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		width BIGINT NOT NULL,
		depth BIGINT NOT NULL,
		height BIGINT NOT NULL,
		max_weight DOUBLE PRECISION NOT NULL,
		stackable BOOLEAN NOT NULL,
		max_stack INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		position INTEGER NOT NULL,
		product_id INTEGER PRIMARY KEY,
		product_code TEXT NOT NULL,
		product_name TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		container_id INTEGER NOT NULL,
		used_truck_ids INTEGER[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		position INTEGER NOT NULL,
		order_id TEXT PRIMARY KEY,
		product_id INTEGER NOT NULL,
		delivery_date DATE NOT NULL,
		order_quantity INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_days (
		day DATE PRIMARY KEY,
		is_working_day BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loading_plans (
		id BIGSERIAL PRIMARY KEY,
		plan_name TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		period TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		total_days INTEGER NOT NULL,
		total_trips INTEGER NOT NULL,
		total_warnings INTEGER NOT NULL,
		unloaded_count INTEGER NOT NULL,
		use_non_default_truck BOOLEAN NOT NULL,
		status TEXT NOT NULL,
		plan_json JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS loading_plan_details (
		id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL REFERENCES loading_plans(id) ON DELETE CASCADE,
		loading_date DATE NOT NULL,
		trip_number INTEGER NOT NULL,
		truck_id INTEGER NOT NULL,
		truck_name TEXT NOT NULL,
		product_id INTEGER NOT NULL,
		product_code TEXT NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		container_id INTEGER NOT NULL,
		num_containers INTEGER NOT NULL,
		total_quantity INTEGER NOT NULL,
		delivery_date DATE NOT NULL,
		is_advanced BOOLEAN NOT NULL,
		original_date DATE,
		floor_area_utilization DOUBLE PRECISION NOT NULL,
		volume_utilization DOUBLE PRECISION NOT NULL,
		weight_utilization DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loading_plan_warnings (
		id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL REFERENCES loading_plans(id) ON DELETE CASCADE,
		warning_date DATE NOT NULL,
		message TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loading_plan_unloaded (
		id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL REFERENCES loading_plans(id) ON DELETE CASCADE,
		loading_date DATE NOT NULL,
		product_id INTEGER NOT NULL,
		product_code TEXT NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		container_id INTEGER NOT NULL,
		num_containers INTEGER NOT NULL,
		total_quantity INTEGER NOT NULL,
		delivery_date DATE NOT NULL,
		reason TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS loading_plan_details_plan_id ON loading_plan_details (plan_id)`,
	`CREATE INDEX IF NOT EXISTS loading_plans_fingerprint ON loading_plans (fingerprint)`,
}
